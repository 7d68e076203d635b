/*
Package treejson serializes sylva trees as JSON documents, so a grown
tree can be persisted and loaded back for pruning or prediction. The
document stores the target index and the node graph; the feature
vector the indices refer to travels separately, as metadata, and must
be supplied again when reading.
*/
package treejson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pbanos/sylva/feature"
	"github.com/pbanos/sylva/tree"
)

type jsonTree struct {
	Target int       `json:"target"`
	Root   *jsonNode `json:"root,omitempty"`
}

type jsonNode struct {
	Attr  int        `json:"attr"`
	Cut   float64    `json:"cut,omitempty"`
	Frq   float64    `json:"frq"`
	Err   float64    `json:"err"`
	Cls   int        `json:"cls,omitempty"`
	Mean  float64    `json:"mean,omitempty"`
	Frqs  []float64  `json:"frqs,omitempty"`
	Slots []jsonSlot `json:"slots,omitempty"`
}

// jsonSlot carries one branch position: a child document for owned
// slots, a link index for aliased ones, neither for empty ones.
type jsonSlot struct {
	Child *jsonNode `json:"child,omitempty"`
	Link  *int      `json:"link,omitempty"`
}

/*
WriteTree takes an io.Writer and a tree and prints a JSON
representation of the tree onto the writer. It returns an error if
serialization or printing fails, nil otherwise.
*/
func WriteTree(w io.Writer, t *tree.Tree) error {
	doc := &jsonTree{Target: t.Target(), Root: encodeNode(t.Root)}
	err := json.NewEncoder(w).Encode(doc)
	if err != nil {
		return fmt.Errorf("serializing tree as JSON: %v", err)
	}
	return nil
}

/*
WriteTreeToFile takes a filepath string and a tree and tries to
create a file on the given filepath and write a JSON representation
of the tree on it with WriteTree. It returns an error if the file
cannot be opened for writing or serialization fails, nil otherwise.
*/
func WriteTreeToFile(filepath string, t *tree.Tree) error {
	f, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteTree(f, t)
}

/*
ReadTree takes an io.Reader and the slice of features the serialized
tree refers to and attempts to JSON-decode a tree from the reader. It
returns the read tree or an error if decoding fails or the document
does not fit the given features.
*/
func ReadTree(r io.Reader, features []*feature.Feature) (*tree.Tree, error) {
	doc := &jsonTree{}
	err := json.NewDecoder(r).Decode(doc)
	if err != nil {
		return nil, fmt.Errorf("decoding JSON tree: %v", err)
	}
	t, err := tree.New(features, doc.Target)
	if err != nil {
		return nil, fmt.Errorf("decoding JSON tree: %v", err)
	}
	t.Root, err = decodeNode(doc.Root, features)
	if err != nil {
		return nil, fmt.Errorf("decoding JSON tree: %v", err)
	}
	t.Refresh()
	return t, nil
}

/*
ReadTreeFromFile takes a filepath string and a slice of features,
opens the file and reads a tree from it with ReadTree. It returns the
read tree or an error.
*/
func ReadTreeFromFile(filepath string, features []*feature.Feature) (*tree.Tree, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTree(f, features)
}

func encodeNode(n *tree.Node) *jsonNode {
	if n == nil {
		return nil
	}
	jn := &jsonNode{
		Attr: n.Attr,
		Cut:  n.Cut,
		Frq:  n.Frq,
		Err:  n.Err,
		Cls:  n.Cls,
		Mean: n.Mean,
		Frqs: n.Frqs,
	}
	for _, s := range n.Slots {
		js := jsonSlot{}
		switch {
		case s.Owned():
			js.Child = encodeNode(s.Child)
		case s.Linked():
			link := s.Link
			js.Link = &link
		}
		jn.Slots = append(jn.Slots, js)
	}
	return jn
}

func decodeNode(jn *jsonNode, features []*feature.Feature) (*tree.Node, error) {
	if jn == nil {
		return nil, nil
	}
	if jn.Attr < 0 || jn.Attr >= len(features) {
		return nil, fmt.Errorf("node refers to feature %d, metadata defines %d", jn.Attr, len(features))
	}
	n := &tree.Node{
		Attr: jn.Attr,
		Cut:  jn.Cut,
		Frq:  jn.Frq,
		Err:  jn.Err,
		Cls:  jn.Cls,
		Mean: jn.Mean,
		Frqs: jn.Frqs,
	}
	for i, js := range jn.Slots {
		switch {
		case js.Child != nil:
			child, err := decodeNode(js.Child, features)
			if err != nil {
				return nil, err
			}
			n.Slots = append(n.Slots, tree.OwnedSlot(child))
		case js.Link != nil:
			if *js.Link < 0 || *js.Link >= len(jn.Slots) || *js.Link == i {
				return nil, fmt.Errorf("slot %d links to invalid slot %d", i, *js.Link)
			}
			n.Slots = append(n.Slots, tree.LinkedSlot(*js.Link))
		default:
			n.Slots = append(n.Slots, tree.EmptySlot())
		}
	}
	return n, nil
}
