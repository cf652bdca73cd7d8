package memdom

import (
	"fmt"

	"github.com/vango-dev/vtree/pkg/vdom"
)

// Op is a mutating surface operation.
type Op string

const (
	OpCreateElement  Op = "create-element"
	OpCreateText     Op = "create-text"
	OpSetText        Op = "set-text"
	OpSetAttr        Op = "set-attr"
	OpRemoveAttr     Op = "remove-attr"
	OpSetProperty    Op = "set-property"
	OpAddListener    Op = "add-listener"
	OpRemoveListener Op = "remove-listener"
	OpInsert         Op = "insert"
	OpRemove         Op = "remove"
)

// Mutation is one logged surface operation.
type Mutation struct {
	Seq    uint64      `json:"seq"`
	Op     Op          `json:"op"`
	Target vdom.Handle `json:"target"`
	Parent vdom.Handle `json:"parent,omitempty"`
	Ref    vdom.Handle `json:"ref,omitempty"`
	Name   string      `json:"name,omitempty"`
	Value  string      `json:"value,omitempty"`
}

// String renders the mutation on one line.
func (m Mutation) String() string {
	switch m.Op {
	case OpCreateElement:
		return fmt.Sprintf("#%d create <%s>", m.Target, m.Name)
	case OpCreateText:
		return fmt.Sprintf("#%d create text %q", m.Target, m.Value)
	case OpSetText:
		return fmt.Sprintf("#%d text = %q", m.Target, m.Value)
	case OpSetAttr:
		return fmt.Sprintf("#%d @%s = %q", m.Target, m.Name, m.Value)
	case OpRemoveAttr:
		return fmt.Sprintf("#%d remove @%s", m.Target, m.Name)
	case OpSetProperty:
		return fmt.Sprintf("#%d .%s = %s", m.Target, m.Name, m.Value)
	case OpAddListener:
		return fmt.Sprintf("#%d listen %s", m.Target, m.Name)
	case OpRemoveListener:
		return fmt.Sprintf("#%d unlisten %s", m.Target, m.Name)
	case OpInsert:
		if m.Ref == 0 {
			return fmt.Sprintf("#%d append to #%d", m.Target, m.Parent)
		}
		return fmt.Sprintf("#%d insert into #%d before #%d", m.Target, m.Parent, m.Ref)
	case OpRemove:
		return fmt.Sprintf("#%d remove from #%d", m.Target, m.Parent)
	default:
		return fmt.Sprintf("#%d %s", m.Target, m.Op)
	}
}
