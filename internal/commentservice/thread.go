package commentservice

// BuildThread nests a chronological flat list into reply trees. Roots and
// replies keep their input order. A comment whose parent is not in the list
// is dropped along with its own replies.
func BuildThread(flat []*Comment) []*Comment {
	byID := make(map[int]*Comment, len(flat))
	for _, c := range flat {
		c.Replies = []*Comment{}
		byID[c.ID] = c
	}

	roots := []*Comment{}
	for _, c := range flat {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}

		if parent, ok := byID[*c.ParentID]; ok {
			parent.Replies = append(parent.Replies, c)
		}
	}

	return roots
}
