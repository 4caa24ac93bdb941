// Package pnml reads Petri nets from PNML, the XML interchange format.
// It maps the first <net> element of a document onto petri.NetInput and
// leaves all structural validation to petri.NewNet, so malformed arcs
// follow the net's strict or lenient mode. Only the structural subset of
// PNML is read: places with an initialMarking, transitions, and arcs;
// graphics, tool annotations, and namespaces are ignored.
package pnml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/reachlab/go-reach/petri"
)

// ErrNoNet is returned when the document contains no <net> element.
var ErrNoNet = errors.New("pnml: no <net> element found")

type pnmlFile struct {
	XMLName xml.Name  `xml:"pnml"`
	Nets    []pnmlNet `xml:"net"`
}

type pnmlNet struct {
	ID          string           `xml:"id,attr"`
	Places      []pnmlPlace      `xml:"place"`
	Transitions []pnmlTransition `xml:"transition"`
	Arcs        []pnmlArc        `xml:"arc"`
	Pages       []pnmlPage       `xml:"page"`
}

// pnmlPage mirrors pnmlNet: pages nest and each level may declare nodes.
type pnmlPage struct {
	Places      []pnmlPlace      `xml:"place"`
	Transitions []pnmlTransition `xml:"transition"`
	Arcs        []pnmlArc        `xml:"arc"`
	Pages       []pnmlPage       `xml:"page"`
}

type pnmlPlace struct {
	ID      string      `xml:"id,attr"`
	Initial pnmlMarking `xml:"initialMarking"`
}

type pnmlMarking struct {
	Text string `xml:"text"`
}

type pnmlTransition struct {
	ID string `xml:"id,attr"`
}

type pnmlArc struct {
	ID     string `xml:"id,attr"`
	Source string `xml:"source,attr"`
	Target string `xml:"target,attr"`
}

// Parse reads a PNML document and returns the structural description of
// its first net. Places and transitions without an id are dropped, as in
// other PNML tooling; everything else is passed through for petri.NewNet
// to judge.
func Parse(r io.Reader) (petri.NetInput, error) {
	var doc pnmlFile
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return petri.NetInput{}, fmt.Errorf("pnml: decoding document: %w", err)
	}
	if len(doc.Nets) == 0 {
		return petri.NetInput{}, ErrNoNet
	}

	net := doc.Nets[0]
	in := petri.NetInput{Name: net.ID}
	collect(&in, net.Places, net.Transitions, net.Arcs)
	for _, page := range net.Pages {
		collectPage(&in, page)
	}
	return in, nil
}

// ParseFile reads a PNML document from disk.
func ParseFile(path string) (petri.NetInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return petri.NetInput{}, fmt.Errorf("pnml: opening %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Load reads a PNML file and builds the net in one step.
func Load(path string, opts ...petri.Option) (*petri.Net, error) {
	in, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return petri.NewNet(in, opts...)
}

func collectPage(in *petri.NetInput, page pnmlPage) {
	collect(in, page.Places, page.Transitions, page.Arcs)
	for _, sub := range page.Pages {
		collectPage(in, sub)
	}
}

func collect(in *petri.NetInput, places []pnmlPlace, transitions []pnmlTransition, arcs []pnmlArc) {
	for _, p := range places {
		if p.ID == "" {
			continue
		}
		in.Places = append(in.Places, petri.PlaceInput{
			ID:      p.ID,
			Initial: initialToken(p.Initial.Text),
		})
	}
	for _, t := range transitions {
		if t.ID == "" {
			continue
		}
		in.Transitions = append(in.Transitions, petri.TransitionInput{ID: t.ID})
	}
	for _, a := range arcs {
		in.Arcs = append(in.Arcs, petri.ArcInput{ID: a.ID, Source: a.Source, Target: a.Target})
	}
}

// initialToken interprets an <initialMarking><text> value for a 1-safe
// net: any count of one or more is a token, anything unparseable is
// none.
func initialToken(text string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return false
	}
	return n >= 1
}
