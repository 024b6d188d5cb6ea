package htmlutil

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// FindTextNode returns the first text node in document order whose
// contents match re, or nil.
func FindTextNode(doc *goquery.Document, re *regexp.Regexp) *html.Node {
	for _, root := range doc.Nodes {
		if found := findTextNodeRecursive(root, re); found != nil {
			return found
		}
	}
	return nil
}

func findTextNodeRecursive(node *html.Node, re *regexp.Regexp) *html.Node {
	if node.Type == html.TextNode {
		if re.MatchString(node.Data) {
			return node
		}
		return nil
	}
	// script/style contents are not visible text
	if node.Type == html.ElementNode && (node.Data == "script" || node.Data == "style") {
		return nil
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findTextNodeRecursive(child, re); found != nil {
			return found
		}
	}
	return nil
}

// ClosestAncestor climbs from node to the nearest ancestor whose tag
// name is in names, falling back to the immediate parent.
func ClosestAncestor(node *html.Node, names ...string) *html.Node {
	for parent := node.Parent; parent != nil; parent = parent.Parent {
		if parent.Type != html.ElementNode {
			continue
		}
		for _, name := range names {
			if parent.Data == name {
				return parent
			}
		}
	}
	return node.Parent
}

// DirectText concatenates the immediate text-node children of the first
// element of sel, skipping nested markup.
func DirectText(sel *goquery.Selection) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}
	out := ""
	for child := sel.Nodes[0].FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode {
			out += child.Data
		}
	}
	return out
}
