package encoder

import (
	"strconv"
	"strings"

	"github.com/px4go/ulog/registry"
)

// formatDeclText renders decl back to its wire form: "Name:T1 f1;T2[K] f2;".
// This is the exact inverse of registry.ParseFormatText.
func formatDeclText(decl registry.FormatDecl) string {
	var b strings.Builder

	b.WriteString(decl.Name)
	b.WriteByte(':')

	for _, field := range decl.Fields {
		b.WriteString(field.TypeName)

		if field.ArraySize > 1 {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(field.ArraySize))
			b.WriteByte(']')
		}

		b.WriteByte(' ')
		b.WriteString(field.FieldName)
		b.WriteByte(';')
	}

	return b.String()
}
