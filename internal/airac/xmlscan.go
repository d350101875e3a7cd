package airac

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"
)

// scanner is a forward-only cursor over an AIXM document. Elements are
// matched by local name; the aixm/gml/adrext prefixes in the files resolve
// to distinct namespaces but the local names are unambiguous in the
// contexts we scan.
type scanner struct {
	d *xml.Decoder
}

func newScanner(r io.Reader) *scanner {
	return &scanner{d: xml.NewDecoder(r)}
}

// next advances to the next start element whose local name is in lookup.
// When stop is non-empty, scanning halts at the matching end element and
// reports false. Any decode error also reports false.
func (s *scanner) next(stop string, lookup ...string) (xml.StartElement, bool) {
	for {
		tok, err := s.d.Token()
		if err != nil {
			return xml.StartElement{}, false
		}
		switch t := tok.(type) {
		case xml.StartElement:
			for _, name := range lookup {
				if t.Name.Local == name {
					return t.Copy(), true
				}
			}
		case xml.EndElement:
			if stop != "" && t.Name.Local == stop {
				return xml.StartElement{}, false
			}
		}
	}
}

// skipPast consumes tokens up to and including the end element with the
// given local name.
func (s *scanner) skipPast(name string) {
	s.next(name)
}

// text accumulates character data until the end element with the given
// local name.
func (s *scanner) text(name string) string {
	var b strings.Builder
	for {
		tok, err := s.d.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.EndElement:
			if t.Name.Local == name {
				return b.String()
			}
		}
	}
	return b.String()
}

func (s *scanner) float(name string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(s.text(name)), 64)
	return v
}

// pos parses a gml:pos element, "latitude longitude" separated by
// whitespace.
func (s *scanner) pos(name string) (lat, lon float64) {
	fields := strings.Fields(s.text(name))
	if len(fields) < 2 {
		return 0, 0
	}
	lat, _ = strconv.ParseFloat(fields[0], 64)
	lon, _ = strconv.ParseFloat(fields[1], 64)
	return lat, lon
}

// hrefUUID extracts an xlink:href attribute, stripping the urn:uuid:
// prefix features use to reference each other.
func hrefUUID(se xml.StartElement) (string, bool) {
	for _, attr := range se.Attr {
		if attr.Name.Local == "href" {
			return strings.TrimPrefix(attr.Value, "urn:uuid:"), true
		}
	}
	return "", false
}
