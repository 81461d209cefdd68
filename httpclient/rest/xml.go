package rest

import (
	"errors"
	"net/http"

	"github.com/beevik/etree"

	"github.com/kbukum/restkit/httpclient"
)

// XMLContentType is sent with rendered XML bodies that carry no explicit
// Content-Type.
const XMLContentType = "application/xml; charset=UTF-8"

// Node describes part of an XML document: an element, an attribute of the
// enclosing element, or text content.
type Node interface {
	build(parent *etree.Element) error
}

// Builder describes an XML document lazily. It is called once per request.
type Builder func() Node

type element struct {
	name     string
	children []Node
}

type attribute struct {
	key, value string
}

type text string

// Elem describes an element with the given attributes, child elements and
// text, in order. Nil children are skipped.
func Elem(name string, children ...Node) Node {
	return element{name: name, children: children}
}

// Attr describes an attribute of the enclosing element.
func Attr(key, value string) Node {
	return attribute{key: key, value: value}
}

// Text describes character data inside the enclosing element.
func Text(value string) Node {
	return text(value)
}

var errEmptyName = errors.New("element name is empty")

func (e element) build(parent *etree.Element) error {
	if e.name == "" {
		return errEmptyName
	}
	el := parent.CreateElement(e.name)
	for _, child := range e.children {
		if child == nil {
			continue
		}
		if err := child.build(el); err != nil {
			return err
		}
	}
	return nil
}

func (a attribute) build(parent *etree.Element) error {
	if a.key == "" {
		return errors.New("attribute name is empty")
	}
	parent.CreateAttr(a.key, a.value)
	return nil
}

func (t text) build(parent *etree.Element) error {
	parent.CreateText(string(t))
	return nil
}

// RenderXML serializes the document rooted at node, which must be an
// element. With declaration set the output starts with
// <?xml version="1.0" encoding="UTF-8"?>.
func RenderXML(node Node, declaration bool) (string, error) {
	root, ok := node.(element)
	if !ok {
		return "", httpclient.NewEncodingError("render xml", errors.New("document root must be an element"))
	}

	doc := etree.NewDocument()
	if declaration {
		doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	}
	if err := root.build(&doc.Element); err != nil {
		return "", httpclient.NewEncodingError("render xml", err)
	}

	out, err := doc.WriteToString()
	if err != nil {
		return "", httpclient.NewEncodingError("render xml", err)
	}
	return out, nil
}

// materialize renders XML bodies and passes every other body through.
func materialize(body any, headers http.Header, declaration bool) (any, error) {
	var node Node
	switch b := body.(type) {
	case Node:
		node = b
	case Builder:
		if b == nil {
			return nil, nil
		}
		node = b()
	case func() Node:
		if b == nil {
			return nil, nil
		}
		node = b()
	default:
		return body, nil
	}

	out, err := RenderXML(node, declaration)
	if err != nil {
		return nil, err
	}
	if headers.Get("Content-Type") == "" {
		headers.Set("Content-Type", XMLContentType)
	}
	return out, nil
}
