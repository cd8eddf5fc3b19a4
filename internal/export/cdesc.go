package export

import (
	"bufio"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/atlaspack/internal/model"
)

// DescriptorHeaderFile is the shared C header every generated map includes.
const DescriptorHeaderFile = "SpriteDescriptor.h"

//go:embed resources/SpriteDescriptor.h
var descriptorHeader []byte

// DescriptorHeader returns the content of SpriteDescriptor.h.
func DescriptorHeader() []byte {
	return descriptorHeader
}

const spriteEntryFormat = "  {\n" +
	"    .offset = %d,\n" +
	"    .name = \"%s\",\n" +
	"\n" +
	"    /* Integer coordinates (Pixel position) */\n" +
	"    .left = %d,\n" +
	"    .top = %d,\n" +
	"    .right = %d,\n" +
	"    .bottom = %d,\n" +
	"    .width = %d,\n" +
	"    .height = %d,\n" +
	"  },\n"

// CIdentifier turns name into a valid C identifier. Characters outside
// [A-Za-z0-9_] become underscores and a leading digit gets an underscore
// prefix.
func CIdentifier(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}

// cString escapes s for use inside a C string literal.
func cString(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`).Replace(s)
}

// DescriptorFiles returns the names of the files WriteDescriptors creates.
func DescriptorFiles(dir, name string) []string {
	return []string{
		filepath.Join(dir, DescriptorHeaderFile),
		filepath.Join(dir, name+".h"),
		filepath.Join(dir, name+".c"),
	}
}

// WriteDescriptors writes SpriteDescriptor.h, <name>.h and <name>.c into dir.
// The header declares the map and the C file defines it with one entry per
// sprite.
func WriteDescriptors(dir string, m model.SpriteMap) error {
	files := DescriptorFiles(dir, m.Name)

	if err := os.WriteFile(files[0], descriptorHeader, 0644); err != nil {
		return fmt.Errorf("cannot write %s: %w", files[0], err)
	}
	if err := writeText(files[1], func(w *bufio.Writer) { writeMapHeader(w, m) }); err != nil {
		return err
	}
	return writeText(files[2], func(w *bufio.Writer) { writeMapSource(w, m) })
}

func writeText(path string, fill func(w *bufio.Writer)) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fill(w)
	if err := w.Flush(); err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	return f.Close()
}

func writeMapHeader(w *bufio.Writer, m model.SpriteMap) {
	ident := CIdentifier(m.Name)
	guard := strings.ToUpper(ident)

	fmt.Fprintf(w, "#ifndef _%s_H_\n"+
		"#define _%s_H_\n"+
		"\n"+
		"#include \"%s\"\n"+
		"\n"+
		"#ifdef __cplusplus\n"+
		"extern \"C\" {\n"+
		"#endif\n"+
		"\n"+
		"extern const struct SpriteMapDescriptor %s;\n",
		guard, guard, DescriptorHeaderFile, ident)

	fmt.Fprint(w, "\n"+
		"#ifdef __cplusplus\n"+
		"}\n"+
		"#endif\n"+
		"\n"+
		"\n#endif\n")
}

func writeMapSource(w *bufio.Writer, m model.SpriteMap) {
	ident := CIdentifier(m.Name)

	fmt.Fprintf(w, "#include \"%s\"\n"+
		"#include \"%s.h\"\n\n"+
		"const struct SpriteMapDescriptor %s = {\n"+
		"  .name = \"%s\",\n"+
		"  .imageFileName = \"%s\",\n"+
		"  .width = %d,\n"+
		"  .height = %d,\n"+
		"  .numSprites = %d,\n"+
		"  .sprites = {\n",
		DescriptorHeaderFile, cString(m.Name), ident, cString(m.Name), cString(m.ImageFileName),
		m.Width, m.Height, m.NumSprites)

	for _, s := range m.Sprites {
		fmt.Fprintf(w, spriteEntryFormat, s.Offset, cString(s.Name),
			s.Left, s.Top, s.Right, s.Bottom, s.Width, s.Height)
	}

	fmt.Fprintf(w, "  }\n"+
		"\n"+
		"}; /* end of %s */\n", ident)
}
