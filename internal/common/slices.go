package common

// IsEmpty reports whether s has no elements.
func IsEmpty[S ~[]E, E any](s S) bool { return len(s) == 0 }

// IsSingle reports whether s has exactly one element.
func IsSingle[S ~[]E, E any](s S) bool { return len(s) == 1 }

// IsMultiple reports whether s has two elements or more.
func IsMultiple[S ~[]E, E any](s S) bool { return len(s) > 1 }

// First returns the head of s; ok is false for an empty s.
func First[S ~[]E, E any](s S) (head E, ok bool) {
	if IsEmpty(s) {
		return head, false
	}

	return s[0], true
}
