package export

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"

	perr "storyport/internal/platform/errors"

	"golang.org/x/net/html/charset"
)

// Decode parses a whole export document
// Non UTF-8 encodings declared in the XML prolog are transcoded
func Decode(r io.Reader) (Document, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Document{}, perr.Parsef("empty export document")
		}
		var se *xml.SyntaxError
		if errors.As(err, &se) {
			return Document{}, perr.Wrapf(err, perr.ErrorCodeParse, "malformed export at line %d", se.Line)
		}
		return Document{}, perr.Wrap(err, perr.ErrorCodeParse, "decode export")
	}
	if err := drainTrailer(dec); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// drainTrailer rejects anything but whitespace, comments and processing
// instructions after the root element
func drainTrailer(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			var se *xml.SyntaxError
			if errors.As(err, &se) {
				return perr.Wrapf(err, perr.ErrorCodeParse, "malformed export at line %d", se.Line)
			}
			return perr.Wrap(err, perr.ErrorCodeParse, "decode export")
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return perr.Parsef("unexpected <%s> after the root element", t.Name.Local)
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return perr.Parsef("unexpected text after the root element")
			}
		}
	}
}
