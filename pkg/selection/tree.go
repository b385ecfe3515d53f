package selection

import "golang.org/x/net/html"

func root(n *html.Node) *html.Node {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

// ancestors lists n's inclusive ancestors from the root down.
func ancestors(n *html.Node) []*html.Node {
	var chain []*html.Node
	for ; n != nil; n = n.Parent {
		chain = append(chain, n)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

func isInclusiveAncestor(a, n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == a {
			return true
		}
	}
	return false
}

func commonAncestor(a, b *html.Node) *html.Node {
	for n := a; n != nil; n = n.Parent {
		if isInclusiveAncestor(n, b) {
			return n
		}
	}
	return nil
}

// childContaining returns the child of ancestor that is an inclusive
// ancestor of n.
func childContaining(ancestor, n *html.Node) *html.Node {
	for ; n != nil; n = n.Parent {
		if n.Parent == ancestor {
			return n
		}
	}
	return nil
}

func childIndex(n *html.Node) int {
	i := 0
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		i++
	}
	return i
}

// precedes reports whether a comes before b in tree order.
func precedes(a, b *html.Node) bool {
	if a == b {
		return false
	}
	ca, cb := ancestors(a), ancestors(b)
	i := 0
	for i < len(ca) && i < len(cb) && ca[i] == cb[i] {
		i++
	}
	switch {
	case i == len(ca):
		return true // a is an ancestor of b
	case i == len(cb):
		return false // b is an ancestor of a
	default:
		return childIndex(ca[i]) < childIndex(cb[i])
	}
}

// comparePoints orders two boundary points of the same tree: -1 when
// (a, ao) is before (b, bo), 0 when equal, 1 when after.
func comparePoints(a *html.Node, ao int, b *html.Node, bo int) int {
	if a == b {
		switch {
		case ao < bo:
			return -1
		case ao > bo:
			return 1
		default:
			return 0
		}
	}
	if precedes(b, a) {
		return -comparePoints(b, bo, a, ao)
	}
	if isInclusiveAncestor(a, b) {
		if childIndex(childContaining(a, b)) < ao {
			return 1
		}
	}
	return -1
}
