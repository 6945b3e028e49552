package message

import (
	"context"
	"fmt"
	"sort"

	"parley-server/services/negotiation-api/internal/utils/platformerrors"
)

// PathToRoot walks parent references from the given message up to a root and
// returns the chain in root-to-target order. The starting id must exist; a
// dangling parent reference mid-walk ends the walk silently rather than
// failing, since the partial path is still usable as prompt context.
func PathToRoot(ctx context.Context, repo Repository, messageID uint) ([]*Message, error) {
	start, err := repo.FindByID(ctx, messageID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err,
			fmt.Sprintf("message %d not found", messageID))
	}

	path := []*Message{start}
	current := start
	for current.ParentID != nil {
		parent, err := repo.FindByID(ctx, *current.ParentID)
		if err != nil {
			if platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
				break
			}
			return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to walk parent chain")
		}
		path = append(path, parent)
		current = parent
	}

	// Collected leaf-first, flip to root-first.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

// Flatten orders a simulation's messages depth-first: sibling groups sorted
// ascending by id, each branch exhausted before the next sibling. A final id
// sort keeps multi-root forests in chronological order, matching the store's
// creation order.
func Flatten(messages []*Message) []*Message {
	if len(messages) == 0 {
		return nil
	}

	byParent := childrenByParent(messages)

	ordered := make([]*Message, 0, len(messages))
	// Iterative DFS with an explicit stack; trees from generation are
	// shallow but manual edits can nest arbitrarily deep.
	type frame struct {
		children []*Message
		next     int
	}
	stack := []frame{{children: byParent[rootKey]}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next >= len(top.children) {
			stack = stack[:len(stack)-1]
			continue
		}
		msg := top.children[top.next]
		top.next++
		ordered = append(ordered, msg)
		if kids := byParent[msg.ID]; len(kids) > 0 {
			stack = append(stack, frame{children: kids})
		}
	}

	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })
	return ordered
}

// TreeJSON is the nested shape served to hierarchical consumers.
type TreeJSON struct {
	ID       uint       `json:"id"`
	Role     Role       `json:"role"`
	Content  string     `json:"content"`
	Children []TreeJSON `json:"children"`
}

// BuildNested groups messages by parent recursively, children sorted by id
// ascending, rooted at each parentless message.
func BuildNested(messages []*Message) []TreeJSON {
	byParent := childrenByParent(messages)
	return buildNested(byParent, rootKey)
}

func buildNested(byParent map[uint][]*Message, parent uint) []TreeJSON {
	children := byParent[parent]
	nodes := make([]TreeJSON, 0, len(children))
	for _, msg := range children {
		nodes = append(nodes, TreeJSON{
			ID:       msg.ID,
			Role:     msg.Role,
			Content:  msg.Content,
			Children: buildNested(byParent, msg.ID),
		})
	}
	return nodes
}

// rootKey stands in for the nil parent in grouping maps. Message ids start
// at 1, so 0 can never collide with a real parent.
const rootKey uint = 0

func childrenByParent(messages []*Message) map[uint][]*Message {
	byParent := make(map[uint][]*Message)
	for _, msg := range messages {
		key := rootKey
		if msg.ParentID != nil {
			key = *msg.ParentID
		}
		byParent[key] = append(byParent[key], msg)
	}
	for _, group := range byParent {
		sort.Slice(group, func(i, j int) bool { return group[i].ID < group[j].ID })
	}
	return byParent
}
