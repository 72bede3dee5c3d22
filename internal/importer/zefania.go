package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/FocuswithJustin/BibleHere/core/errors"
	"github.com/FocuswithJustin/BibleHere/core/ir"
	"github.com/FocuswithJustin/BibleHere/core/resolver"
)

// Compiled once; the layout is fixed.
var (
	bookExpr    = xpath.MustCompile("//BIBLEBOOK")
	chapterExpr = xpath.MustCompile("CHAPTER")
	verseExpr   = xpath.MustCompile("VERS")
)

// ParseZefania reads a Zefania XML bible
// (XMLBIBLE/BIBLEBOOK@bnumber/CHAPTER@cnumber/VERS@vnumber). Version
// metadata comes from the XMLBIBLE attributes and the INFORMATION block.
// Verses outside the canon's bounds are counted as failures.
func ParseZefania(r io.Reader, res *resolver.Resolver) (ir.Version, []ir.Verse, Result, error) {
	result := Result{Kind: "zefania"}
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return ir.Version{}, nil, result, fmt.Errorf("parsing XML: %w", err)
	}
	root := xmlquery.FindOne(doc, "/XMLBIBLE")
	if root == nil {
		return ir.Version{}, nil, result, errors.NewParse("zefania", "", 0, "missing XMLBIBLE root")
	}

	version := zefaniaVersion(root)
	var verses []ir.Verse
	row := 0
	for _, book := range xmlquery.QuerySelectorAll(root, bookExpr) {
		bnum, _ := strconv.Atoi(book.SelectAttr("bnumber"))
		for _, chapter := range xmlquery.QuerySelectorAll(book, chapterExpr) {
			cnum, _ := strconv.Atoi(chapter.SelectAttr("cnumber"))
			for _, vers := range xmlquery.QuerySelectorAll(chapter, verseExpr) {
				row++
				vnum, _ := strconv.Atoi(vers.SelectAttr("vnumber"))
				text := strings.Join(strings.Fields(vers.InnerText()), " ")
				if text == "" {
					result.fail(row, errors.NewValidation("text", "empty verse"))
					continue
				}
				id, err := res.Verse(bnum, cnum, vnum)
				if err != nil {
					result.fail(row, err)
					continue
				}
				verses = append(verses, ir.Verse{Version: version.Abbrev, ID: id, Text: text})
				result.Success++
			}
		}
	}
	result.Version = version.Abbrev
	return version, verses, result, nil
}

func zefaniaVersion(root *xmlquery.Node) ir.Version {
	v := ir.Version{
		Name:     root.SelectAttr("biblename"),
		Language: root.SelectAttr("language"),
	}
	if info := xmlquery.FindOne(root, "INFORMATION"); info != nil {
		text := func(name string) string {
			if n := xmlquery.FindOne(info, name); n != nil {
				return strings.TrimSpace(n.InnerText())
			}
			return ""
		}
		if v.Name == "" {
			v.Name = text("title")
		}
		if v.Language == "" {
			v.Language = text("language")
		}
		v.Abbrev = text("identifier")
		v.Publisher = text("publisher")
		v.Copyright = text("rights")
	}
	return v
}
