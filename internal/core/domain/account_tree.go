package domain

import "sort"

// AccountNode is an account with its children resolved, for tree display.
type AccountNode struct {
	Account  Account        `json:"account"`
	Children []*AccountNode `json:"children,omitempty"`
}

// AccountArena indexes a flat slice of accounts by ID for parent-pointer
// traversal. The chart of accounts is a forest: cycles are prevented at
// creation time (a new account always attaches below an existing one), so
// traversal needs no visited set beyond a defensive depth cap.
type AccountArena struct {
	byID       map[string]Account
	byParentID map[string][]string
}

// maxTreeDepth bounds traversals against corrupted parent pointers.
const maxTreeDepth = 64

// NewAccountArena builds an arena from a flat account slice.
func NewAccountArena(accounts []Account) *AccountArena {
	arena := &AccountArena{
		byID:       make(map[string]Account, len(accounts)),
		byParentID: make(map[string][]string),
	}
	for _, acc := range accounts {
		arena.byID[acc.AccountID] = acc
		arena.byParentID[acc.ParentAccountID] = append(arena.byParentID[acc.ParentAccountID], acc.AccountID)
	}
	return arena
}

// Get returns the account with the given ID.
func (ar *AccountArena) Get(accountID string) (Account, bool) {
	acc, ok := ar.byID[accountID]
	return acc, ok
}

// Ancestors returns the chain of parents for accountID, root first.
// The account itself is not included.
func (ar *AccountArena) Ancestors(accountID string) []Account {
	var chain []Account
	acc, ok := ar.byID[accountID]
	if !ok {
		return nil
	}
	for depth := 0; acc.ParentAccountID != "" && depth < maxTreeDepth; depth++ {
		parent, ok := ar.byID[acc.ParentAccountID]
		if !ok {
			break
		}
		chain = append(chain, parent)
		acc = parent
	}
	// Walked child→root; callers expect root first.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// Descendants returns every account below accountID, in no particular order.
func (ar *AccountArena) Descendants(accountID string) []Account {
	var out []Account
	stack := append([]string(nil), ar.byParentID[accountID]...)
	for len(stack) > 0 && len(out) < len(ar.byID) {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		acc, ok := ar.byID[id]
		if !ok {
			continue
		}
		out = append(out, acc)
		stack = append(stack, ar.byParentID[id]...)
	}
	return out
}

// HasChildren reports whether any account points at accountID as its parent.
func (ar *AccountArena) HasChildren(accountID string) bool {
	return len(ar.byParentID[accountID]) > 0
}

// BuildTree assembles nested nodes. With rootID empty the full forest is
// returned; otherwise the subtree rooted at rootID. Siblings are ordered by
// account code.
func (ar *AccountArena) BuildTree(rootID string) []*AccountNode {
	childIDs := ar.byParentID[rootID]
	if rootID != "" {
		if root, ok := ar.byID[rootID]; ok {
			node := &AccountNode{Account: root, Children: ar.buildChildren(root.AccountID, 1)}
			return []*AccountNode{node}
		}
		return nil
	}
	nodes := make([]*AccountNode, 0, len(childIDs))
	for _, id := range childIDs {
		acc := ar.byID[id]
		nodes = append(nodes, &AccountNode{Account: acc, Children: ar.buildChildren(id, 1)})
	}
	sortNodes(nodes)
	return nodes
}

func (ar *AccountArena) buildChildren(parentID string, depth int) []*AccountNode {
	if depth >= maxTreeDepth {
		return nil
	}
	ids := ar.byParentID[parentID]
	if len(ids) == 0 {
		return nil
	}
	nodes := make([]*AccountNode, 0, len(ids))
	for _, id := range ids {
		acc := ar.byID[id]
		nodes = append(nodes, &AccountNode{Account: acc, Children: ar.buildChildren(id, depth+1)})
	}
	sortNodes(nodes)
	return nodes
}

func sortNodes(nodes []*AccountNode) {
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].Account.Code < nodes[j].Account.Code
	})
}
