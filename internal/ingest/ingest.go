package ingest

import (
	"encoding/xml"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/you/danmaku-report/internal/core"
)

// Document holds the normalized event streams in source order.
type Document struct {
	Comments []core.Comment
	Gifts    []core.Gift
}

type rawRoot struct {
	XMLName  xml.Name     `xml:"i"`
	Comments []rawComment `xml:"d"`
	Gifts    []rawGift    `xml:"s"`
}

type rawComment struct {
	Body      string `xml:",chardata"`
	P         string `xml:"p,attr"`
	UID       string `xml:"uid,attr"`
	User      string `xml:"user,attr"`
	Timestamp string `xml:"timestamp,attr"`
}

type rawGift struct {
	Body      string `xml:",chardata"`
	UID       string `xml:"uid,attr"`
	Username  string `xml:"username,attr"`
	Price     string `xml:"price,attr"`
	Num       string `xml:"num,attr"`
	GiftName  string `xml:"giftname,attr"`
	Timestamp string `xml:"timestamp,attr"`
}

const (
	packedTsIndex  = 4
	packedUIDIndex = 6

	unknownUser = "未知用户"
)

// ParseFile loads and normalizes an XML export. Any read or decode failure
// aborts the whole load; a partially-ingested document is never returned.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open export")
	}
	defer f.Close()
	doc, err := Parse(f)
	return doc, errors.Wrapf(err, "parse %s", path)
}

func Parse(r io.Reader) (*Document, error) {
	var root rawRoot
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&root); err != nil {
		return nil, errors.Wrap(err, "decode xml")
	}

	doc := &Document{
		Comments: make([]core.Comment, 0, len(root.Comments)),
		Gifts:    make([]core.Gift, 0, len(root.Gifts)),
	}

	for i, rc := range root.Comments {
		c, err := normalizeComment(rc)
		if err != nil {
			return nil, errors.Wrapf(err, "comment %d", i)
		}
		doc.Comments = append(doc.Comments, c)
	}
	for i, rg := range root.Gifts {
		g, err := normalizeGift(rg)
		if err != nil {
			return nil, errors.Wrapf(err, "gift %d", i)
		}
		doc.Gifts = append(doc.Gifts, g)
	}
	return doc, nil
}

func normalizeComment(rc rawComment) (core.Comment, error) {
	packed := strings.Split(rc.P, ",")
	uid := attrOrPacked(rc.UID, packed, packedUIDIndex, "0")
	tsRaw := attrOrPacked(rc.Timestamp, packed, packedTsIndex, "0")
	ts, err := strconv.ParseFloat(strings.TrimSpace(tsRaw), 64)
	if err != nil {
		return core.Comment{}, errors.Wrapf(err, "timestamp %q", tsRaw)
	}
	user := rc.User
	if user == "" {
		user = unknownUser
	}
	return core.Comment{
		Text: strings.TrimSpace(rc.Body),
		UID:  uid,
		User: user,
		Ts:   ts,
	}, nil
}

func normalizeGift(rg rawGift) (core.Gift, error) {
	price, err := floatAttr(rg.Price, 0)
	if err != nil {
		return core.Gift{}, errors.Wrapf(err, "price %q", rg.Price)
	}
	num, err := intAttr(rg.Num, 1)
	if err != nil {
		return core.Gift{}, errors.Wrapf(err, "num %q", rg.Num)
	}
	ts, err := floatAttr(rg.Timestamp, 0)
	if err != nil {
		return core.Gift{}, errors.Wrapf(err, "timestamp %q", rg.Timestamp)
	}
	return core.Gift{
		Text:     rg.Body,
		UID:      rg.UID,
		User:     rg.Username,
		Price:    price,
		Num:      num,
		GiftName: rg.GiftName,
		Ts:       ts,
	}, nil
}

// attrOrPacked resolves a field that may be carried either as an explicit
// attribute or positionally inside the comma-packed "p" attribute.
func attrOrPacked(attr string, packed []string, idx int, def string) string {
	if attr != "" {
		return attr
	}
	if idx < len(packed) && packed[idx] != "" {
		return packed[idx]
	}
	return def
}

// floatAttr defaults only when the attribute is absent; a present but
// unparsable value is an error, not a silent zero.
func floatAttr(raw string, def float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func intAttr(raw string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
