package gen

import (
	"strings"
	"unicode"

	"github.com/dave/jennifer/jen"
)

// NewFile returns a jennifer file for the generated package.
func (c *Config) NewFile() *jen.File {
	var f *jen.File
	if c.Package != "" {
		f = jen.NewFilePathName(c.Package, c.PackageName())
	} else {
		f = jen.NewFile(c.PackageName())
	}
	if c.Header != "" {
		f.HeaderComment(c.Header)
	}
	return f
}

// ReceiverName returns the receiver used by methods of c.
func ReceiverName(c *Class) string {
	for _, r := range c.Name {
		return string(unicode.ToLower(r))
	}
	return "m"
}

// RenderClasses renders model classes into one file.
func RenderClasses(cfg *Config, classes []*Class) *jen.File {
	f := cfg.NewFile()
	for _, c := range classes {
		addClass(f, c)
	}
	return f
}

// RenderInterface renders an interface into its own file.
func RenderInterface(cfg *Config, i *Interface) *jen.File {
	f := cfg.NewFile()
	addInterface(f, i)
	return f
}

func addInterface(f *jen.File, i *Interface) {
	for _, d := range i.Doc {
		f.Comment(d)
	}
	decl := f.Type().Id(i.Name)
	if len(i.TypeParams) > 0 {
		tps := make([]jen.Code, len(i.TypeParams))
		for n, tp := range i.TypeParams {
			c := jen.Id("any")
			if tp.Constraint != nil {
				c = jen.Add(tp.Constraint.Code())
			}
			tps[n] = jen.Id(tp.Name).Add(c)
		}
		decl.Types(tps...)
	}
	decl.InterfaceFunc(func(g *jen.Group) {
		for _, e := range i.Embeds {
			g.Add(e.Code())
		}
		for n, m := range i.Methods {
			if n > 0 || len(i.Embeds) > 0 {
				g.Line()
			}
			for _, d := range m.Doc {
				g.Comment(d)
			}
			for _, d := range directives(m) {
				g.Comment(d)
			}
			g.Id(m.Name).Params(params(m)...).Add(results(m.Results))
		}
	})
}

func addClass(f *jen.File, c *Class) {
	for _, d := range c.Doc {
		f.Comment(d)
	}
	f.Type().Id(c.Name).StructFunc(func(g *jen.Group) {
		for _, e := range c.Embeds {
			g.Add(e.Code())
		}
		for _, fd := range c.Fields {
			for _, d := range fd.Doc {
				g.Comment(d)
			}
			s := g.Id(fd.Name).Add(fd.Type.Code())
			if len(fd.Tags) > 0 {
				s.Tag(fd.Tags)
			}
		}
	})
	for _, t := range c.Implements {
		f.Var().Id("_").Add(t.Code()).Op("=").Parens(jen.Op("*").Id(c.Name)).Parens(jen.Nil())
	}
	recv := ReceiverName(c)
	for _, m := range c.Methods {
		f.Line()
		for _, d := range m.Doc {
			f.Comment(d)
		}
		f.Func().
			Params(jen.Id(recv).Op("*").Id(c.Name)).
			Id(m.Name).
			Params(params(m)...).
			Add(results(m.Results)).
			Block(m.Body...)
	}
}

func params(m *Method) []jen.Code {
	var ps []jen.Code
	if m.Context {
		ps = append(ps, jen.Id("ctx").Add(ContextType.Code()))
	}
	for _, p := range m.Params {
		ps = append(ps, jen.Id(p.Name).Add(p.Type.Code()))
	}
	return ps
}

func results(rs []*Type) jen.Code {
	switch len(rs) {
	case 0:
		return jen.Null()
	case 1:
		return rs[0].Code()
	}
	codes := make([]jen.Code, len(rs))
	for i, r := range rs {
		codes[i] = r.Code()
	}
	return jen.Params(codes...)
}

// directives returns the //sqlmap:param lines naming the bound arguments.
func directives(m *Method) []string {
	var binds []string
	for _, p := range m.Params {
		if p.Bind != "" {
			binds = append(binds, p.Name+"="+p.Bind)
		}
	}
	if len(binds) == 0 {
		return nil
	}
	return []string{"//sqlmap:param " + strings.Join(binds, " ")}
}
