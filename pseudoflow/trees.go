package pseudoflow

func (e *Engine) addToBucket(root int32, label uint32) {
	b := &e.buckets[label]
	if e.fifo {
		e.nodes[root].next = none
		if b.start == none {
			b.start = root
		} else {
			e.nodes[b.end].next = root
		}
		b.end = root
		return
	}
	e.nodes[root].next = b.start
	b.start = root
}

func (e *Engine) popBucket(label uint32) int32 {
	b := &e.buckets[label]
	root := b.start
	b.start = e.nodes[root].next
	e.nodes[root].next = none
	return root
}

func (e *Engine) addRelationship(newParent, child int32) {
	e.nodes[child].parent = newParent
	e.nodes[child].next = e.nodes[newParent].childList
	e.nodes[newParent].childList = child
}

func (e *Engine) breakRelationship(oldParent, child int32) {
	c := &e.nodes[child]
	c.parent = none
	p := &e.nodes[oldParent]
	if p.childList == child {
		p.childList = c.next
		c.next = none
		return
	}
	current := p.childList
	for e.nodes[current].next != child {
		current = e.nodes[current].next
	}
	e.nodes[current].next = c.next
	c.next = none
}

// merge hangs the tree of child below parent through newArc, reversing the path from child up to its old root.
func (e *Engine) merge(parent, child, newArc int32) {
	e.stats.Merges++
	current := child
	newParent := parent
	for e.nodes[current].parent != none {
		oldArc := e.nodes[current].arcToParent
		e.nodes[current].arcToParent = newArc
		oldParent := e.nodes[current].parent
		e.breakRelationship(oldParent, current)
		e.addRelationship(newParent, current)
		newParent = current
		current = oldParent
		newArc = oldArc
		e.arcs[newArc].direction = 1 - e.arcs[newArc].direction
	}
	e.nodes[current].arcToParent = newArc
	e.addRelationship(newParent, current)
}

// split detaches a saturated child and makes it a strong root of its own.
func (e *Engine) split(a, child, parent int32) {
	e.nodes[parent].outOfTree = append(e.nodes[parent].outOfTree, a)
	e.breakRelationship(parent, child)
	label := e.nodes[child].label
	if e.lowestLabel && label < e.lowestStrongLabel {
		e.lowestStrongLabel = label
	}
	e.addToBucket(child, label)
}

func (e *Engine) pushUpward(a, child, parent int32, resCap int64) {
	e.stats.Pushes++
	ac, c, p := &e.arcs[a], &e.nodes[child], &e.nodes[parent]
	if resCap >= c.excess {
		p.excess += c.excess
		ac.flow += c.excess
		c.excess = 0
		return
	}
	ac.direction = 0
	p.excess += resCap
	c.excess -= resCap
	ac.flow = ac.capacity
	e.split(a, child, parent)
}

func (e *Engine) pushDownward(a, child, parent int32, flow int64) {
	e.stats.Pushes++
	ac, c, p := &e.arcs[a], &e.nodes[child], &e.nodes[parent]
	if flow >= c.excess {
		p.excess += c.excess
		ac.flow -= c.excess
		c.excess = 0
		return
	}
	ac.direction = 1
	c.excess -= flow
	p.excess += flow
	ac.flow = 0
	e.split(a, child, parent)
}

// pushExcess moves the excess of strongRoot towards the root of its (new) tree.
func (e *Engine) pushExcess(strongRoot int32) {
	current := strongRoot
	prevEx := int64(1)
	for e.nodes[current].excess != 0 && e.nodes[current].parent != none {
		parent := e.nodes[current].parent
		prevEx = e.nodes[parent].excess
		a := e.nodes[current].arcToParent
		if ac := &e.arcs[a]; ac.direction == 1 {
			e.pushUpward(a, current, parent, ac.capacity-ac.flow)
		} else {
			e.pushDownward(a, current, parent, ac.flow)
		}
		current = parent
	}
	if c := &e.nodes[current]; c.excess > 0 && prevEx <= 0 {
		if e.lowestLabel && c.label < e.lowestStrongLabel {
			e.lowestStrongLabel = c.label
		}
		e.addToBucket(current, c.label)
	}
}

// liftAll moves every node of the tree below root to the lift label.
func (e *Engine) liftAll(root int32) {
	current := root
	e.nodes[current].nextScan = e.nodes[current].childList
	e.labelCount[e.nodes[current].label]--
	e.nodes[current].label = e.numNodes

	for current != none {
		for e.nodes[current].nextScan != none {
			temp := e.nodes[current].nextScan
			e.nodes[current].nextScan = e.nodes[temp].next
			current = temp
			e.nodes[current].nextScan = e.nodes[current].childList
			e.labelCount[e.nodes[current].label]--
			e.nodes[current].label = e.numNodes
		}
		current = e.nodes[current].parent
	}
}
