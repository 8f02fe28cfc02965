package lutcache

// lruNode is a node in a doubly-linked LRU list.
type lruNode struct {
	key  string
	prev *lruNode
	next *lruNode
}

// lruList orders keys by recency; head is the most recently used.
// Not thread-safe; the owning shard holds the lock.
type lruList struct {
	head *lruNode
	tail *lruNode
	len  int
}

func (l *lruList) pushFront(key string) *lruNode {
	node := &lruNode{key: key}
	l.linkFront(node)
	l.len++
	return node
}

func (l *lruList) moveToFront(node *lruNode) {
	if node == l.head {
		return
	}
	l.unlink(node)
	l.linkFront(node)
}

func (l *lruList) remove(node *lruNode) {
	l.unlink(node)
	l.len--
}

// removeOldest removes the least recently used key.
func (l *lruList) removeOldest() (string, bool) {
	if l.tail == nil {
		return "", false
	}
	node := l.tail
	l.remove(node)
	return node.key, true
}

func (l *lruList) linkFront(node *lruNode) {
	node.prev = nil
	node.next = l.head
	if l.head != nil {
		l.head.prev = node
	}
	l.head = node
	if l.tail == nil {
		l.tail = node
	}
}

func (l *lruList) unlink(node *lruNode) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}
	node.prev = nil
	node.next = nil
}
