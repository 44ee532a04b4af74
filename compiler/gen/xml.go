package gen

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/beevik/etree"
)

const doctype = `DOCTYPE mapper PUBLIC "-//mybatis.org//DTD Mapper 3.0//EN" "http://mybatis.org/dtd/mybatis-3-mapper.dtd"`

// EncodeDocument renders a statement document as mapper XML. Text nodes
// are written one per line, indented by depth.
func EncodeDocument(d *Document) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.CreateText("\n")
	doc.CreateDirective(doctype)
	doc.CreateText("\n")
	encodeElement(&doc.Element, d.Root, 0)
	doc.CreateText("\n")
	return doc.WriteToBytes()
}

func encodeElement(parent *etree.Element, e *Element, depth int) {
	x := parent.CreateElement(e.Name)
	for _, a := range e.Attrs {
		x.CreateAttr(a.Name, a.Value)
	}
	if len(e.Children) == 0 {
		return
	}
	for i, n := range e.Children {
		if depth == 0 && i > 0 {
			x.CreateText("\n")
		}
		x.CreateText("\n" + strings.Repeat("  ", depth+1))
		switch n := n.(type) {
		case *Text:
			x.CreateText(n.Content)
		case *Element:
			encodeElement(x, n, depth+1)
		}
	}
	x.CreateText("\n" + strings.Repeat("  ", depth))
}

// VerifyDocument parses rendered mapper XML and checks that every
// statement carries an id and that ids are unique.
func VerifyDocument(data []byte) error {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return NewGenerationError("verify", "", "malformed document", err)
	}
	root, err := xmlquery.Query(doc, "/mapper")
	if err != nil {
		return NewGenerationError("verify", "", "query root", err)
	}
	if root == nil {
		return NewGenerationError("verify", "", "missing mapper root", nil)
	}
	stmts, err := xmlquery.QueryAll(doc, "/mapper/*")
	if err != nil {
		return NewGenerationError("verify", "", "query statements", err)
	}
	seen := make(map[string]bool, len(stmts))
	for _, n := range stmts {
		id := n.SelectAttr("id")
		if id == "" {
			return NewGenerationError("verify", "", fmt.Sprintf("<%s> without id", n.Data), nil)
		}
		if seen[id] {
			return NewGenerationError("verify", "", fmt.Sprintf("duplicate statement id %q", id), nil)
		}
		seen[id] = true
	}
	return nil
}
