package markup

import (
	"strings"

	"golang.org/x/net/html"
)

var blockTags = map[string]bool{
	"p": true, "div": true, "li": true, "tr": true, "table": true,
	"ul": true, "ol": true, "blockquote": true, "pre": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"section": true, "article": true, "header": true, "footer": true,
}

// Paragraphs converts markup into plain-text paragraphs. Block-level tags
// end a paragraph, <br> becomes a newline inside it and character
// references are decoded. Runs of spaces and tabs collapse to one space.
// Empty paragraphs are dropped.
func Paragraphs(markup string) []string {
	z := html.NewTokenizer(strings.NewReader(markup))

	var paras []string
	var cur strings.Builder
	skip := 0

	flush := func() {
		lines := strings.Split(cur.String(), "\n")
		for i, l := range lines {
			lines[i] = strings.Join(strings.Fields(l), " ")
		}
		text := strings.Trim(strings.Join(lines, "\n"), "\n")
		if text != "" {
			paras = append(paras, text)
		}
		cur.Reset()
	}

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			flush()
			return paras
		case html.TextToken:
			if skip == 0 {
				cur.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			switch {
			case tag == "script" || tag == "style":
				if tt == html.StartTagToken {
					skip++
				} else if tt == html.EndTagToken && skip > 0 {
					skip--
				}
			case tag == "br":
				cur.WriteByte('\n')
			case blockTags[tag]:
				flush()
			}
		}
	}
}

// ToText joins Paragraphs with blank lines.
func ToText(markup string) string {
	return strings.Join(Paragraphs(markup), "\n\n")
}
