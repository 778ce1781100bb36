package render

import (
	"bytes"
	"encoding/xml"
)

// Voice renders the telephony control document: ordered Say/Play directives
// followed by at most one of Gather, Record, Redirect or Hangup, matching
// the IVR provider's XML dialect.

type xmlSay struct {
	XMLName  xml.Name `xml:"Say"`
	Language string   `xml:"language,attr,omitempty"`
	Text     string   `xml:",chardata"`
}

type xmlPlay struct {
	XMLName xml.Name `xml:"Play"`
	URL     string   `xml:",chardata"`
}

type xmlGather struct {
	XMLName   xml.Name `xml:"Gather"`
	NumDigits int      `xml:"numDigits,attr"`
	Timeout   int      `xml:"timeout,attr"`
	Action    string   `xml:"action,attr"`
}

type xmlRecord struct {
	XMLName     xml.Name `xml:"Record"`
	MaxLength   int      `xml:"maxLength,attr"`
	PlayBeep    bool     `xml:"playBeep,attr"`
	CallbackURL string   `xml:"callbackUrl,attr"`
}

type xmlRedirect struct {
	XMLName xml.Name `xml:"Redirect"`
	URL     string   `xml:",chardata"`
}

type xmlHangup struct {
	XMLName xml.Name `xml:"Hangup"`
}

const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

const (
	defaultGatherTimeout = 5
	defaultRecordMaxLen  = 30
)

// Voice serializes the reply into the XML control document returned to the
// telephony webhook.
func Voice(r Reply) (string, error) {
	var buf bytes.Buffer
	buf.WriteString(xmlHeader)

	enc := xml.NewEncoder(&buf)
	root := xml.StartElement{Name: xml.Name{Local: "Response"}}
	if err := enc.EncodeToken(root); err != nil {
		return "", err
	}

	for _, seg := range r.Segments {
		var el any
		switch {
		case seg.Play != "":
			el = xmlPlay{URL: seg.Play}
		case seg.Say != "":
			el = xmlSay{Text: seg.Say, Language: seg.Language}
		default:
			continue
		}
		if err := enc.Encode(el); err != nil {
			return "", err
		}
	}

	var directive any
	switch r.Expect {
	case ExpectDigits:
		g := xmlGather{NumDigits: r.NumDigits, Timeout: r.TimeoutS, Action: r.Action}
		if g.NumDigits == 0 {
			g.NumDigits = 1
		}
		if g.Timeout == 0 {
			g.Timeout = defaultGatherTimeout
		}
		directive = g
	case ExpectRecording:
		rec := xmlRecord{MaxLength: r.MaxLenS, PlayBeep: true, CallbackURL: r.Action}
		if rec.MaxLength == 0 {
			rec.MaxLength = defaultRecordMaxLen
		}
		directive = rec
	}
	if directive != nil {
		if err := enc.Encode(directive); err != nil {
			return "", err
		}
	}

	if r.Redirect != "" {
		if err := enc.Encode(xmlRedirect{URL: r.Redirect}); err != nil {
			return "", err
		}
	}
	if r.Hangup {
		if err := enc.Encode(xmlHangup{}); err != nil {
			return "", err
		}
	}

	if err := enc.EncodeToken(root.End()); err != nil {
		return "", err
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
