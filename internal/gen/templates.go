package gen

import (
	"fmt"
	"strings"
	"text/template"

	"mirror-generator/internal/common"
	"mirror-generator/internal/convert"
	"mirror-generator/internal/emit"
)

// fileData is the part every generated file shares.
type fileData struct {
	Header  string
	Imports [][]string
}

// converterData is a to_rs() method ready for rendering.
type converterData struct {
	Method  string
	Target  string
	Subject string
	Args    []convert.Arg
	Cases   []convert.Case
	// Fallback is the statement of the catch-all match arm.
	Fallback string
}

type recordData struct {
	File      fileData
	Name      string
	Doc       string
	Fields    []string
	Converter *converterData
}

type enumerationData struct {
	File      fileData
	Name      string
	Doc       string
	Members   []emit.EnumMember
	Converter *converterData
}

type variantData struct {
	Name    string
	Class   string
	Payload string
}

type unionData struct {
	File          fileData
	Name          string
	Doc           string
	Discriminator string
	Alias         string
	TagField      string
	Variants      []variantData
	Classes       []string
	// Discriminated is false for single-variant unions, which pydantic
	// cannot key by discriminator.
	Discriminated bool
	Converter     *converterData
}

type initData struct {
	File    fileData
	Exports []string
}

func newConverterData(conv *convert.Converter, fallback string) *converterData {
	if conv == nil {
		return nil
	}

	return &converterData{
		Method:   conv.Method,
		Target:   conv.Target,
		Subject:  conv.Subject,
		Args:     conv.Args,
		Cases:    conv.Cases,
		Fallback: fallback,
	}
}

func attribute(f *emit.FieldDecl) string {
	if f.Default == "" {
		return f.Name + ": " + f.Annotation
	}

	return f.Name + ": " + f.Annotation + " = " + f.Default
}

func newRecordData(file fileData, r *emit.Record, conv *convert.Converter) recordData {
	data := recordData{
		File:      file,
		Name:      r.Name(),
		Doc:       docstring(r.Type.Doc, "    "),
		Converter: newConverterData(conv, ""),
	}

	for i := range r.Fields {
		data.Fields = append(data.Fields, attribute(&r.Fields[i]))
	}

	return data
}

func newEnumerationData(file fileData, e *emit.Enumeration, conv *convert.Converter) enumerationData {
	return enumerationData{
		File:    file,
		Name:    e.Name(),
		Doc:     docstring(e.Type.Doc, "    "),
		Members: e.Members,
		Converter: newConverterData(conv,
			fmt.Sprintf(`raise ValueError(f"unknown %s member: {self!r}")`, e.Name())),
	}
}

func newUnionData(file fileData, u *emit.Union, conv *convert.Converter) unionData {
	data := unionData{
		File:          file,
		Name:          u.Name(),
		Doc:           docstring(u.Type.Doc, "    "),
		Discriminator: u.Discriminator,
		Alias:         u.Alias,
		TagField:      u.TagField,
		Discriminated: common.IsMultiple(u.Variants),
	}

	if conv != nil {
		data.Converter = newConverterData(conv,
			fmt.Sprintf(`raise ValueError(f"unknown %s variant: {%s!r}")`, u.Name(), conv.Subject))
	}

	for _, v := range u.Variants {
		vd := variantData{Name: v.Name, Class: v.Class}
		if v.Payload != nil {
			vd.Payload = attribute(v.Payload)
		}

		data.Variants = append(data.Variants, vd)
		data.Classes = append(data.Classes, v.Class)
	}

	return data
}

var templates = template.Must(template.New("python").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(`
{{- define "preamble"}}{{.Header}}
{{range $i, $g := .Imports}}{{if $i}}{{"\n"}}{{end}}{{range $g}}{{.}}{{"\n"}}{{end}}{{end}}{{end}}

{{- define "match"}}
    def {{.Method}}(self):
        match {{.Subject}}:
{{- range .Cases}}
            case {{.Pattern}}:
                return {{.Return}}
{{- end}}
            case _:
                {{.Fallback}}
{{- end}}

{{- define "record"}}{{template "preamble" .File}}

class {{.Name}}(BaseModel):
{{- with .Doc}}
    {{.}}
{{- if or $.Fields $.Converter}}{{"\n"}}{{end}}
{{- end}}
{{- range .Fields}}
    {{.}}
{{- end}}
{{- if not (or .Doc .Fields .Converter)}}
    pass
{{- end}}
{{- with .Converter}}
{{- if or $.Doc $.Fields}}{{"\n"}}{{end}}
    def {{.Method}}(self):
{{- if .Args}}
        return {{.Target}}(
{{- range .Args}}
            {{.Name}}={{.Expr}},
{{- end}}
        )
{{- else}}
        return {{.Target}}()
{{- end}}
{{- end}}
{{end}}

{{- define "enumeration"}}{{template "preamble" .File}}

class {{.Name}}(enum.Enum):
{{- with .Doc}}
    {{.}}{{"\n"}}
{{- end}}
{{- range .Members}}
    {{.Name}} = {{.Value}}
{{- end}}
{{- with .Converter}}{{"\n"}}{{template "match" .}}{{end}}
{{end}}

{{- define "union"}}{{template "preamble" .File}}

class {{.Discriminator}}(enum.Enum):
{{- range .Variants}}
    {{.Name}} = "{{.Name}}"
{{- end}}
{{range .Variants}}

class {{.Class}}(BaseModel):
    {{$.TagField}}: Literal[{{$.Discriminator}}.{{.Name}}] = Field(default={{$.Discriminator}}.{{.Name}}, frozen=True)
{{- with .Payload}}
    {{.}}
{{- end}}
{{end}}

{{.Alias}} = Union[{{join .Classes ", "}}]


class {{.Name}}(RootModel[{{.Alias}}]):
{{- with .Doc}}
    {{.}}{{"\n"}}
{{- end}}
    root: {{.Alias}}{{if .Discriminated}} = Field(..., discriminator="{{.TagField}}"){{end}}
{{- with .Converter}}{{"\n"}}{{template "match" .}}{{end}}
{{end}}

{{- define "init"}}{{template "preamble" .File}}
__all__ = [
{{- range .Exports}}
    "{{.}}",
{{- end}}
]
{{end}}
`))
