package pseudoflow

// activeLabel is the label of the strong root being processed.
func (e *Engine) activeLabel() uint32 {
	if e.lowestLabel {
		return e.lowestStrongLabel
	}
	return e.highestStrongLabel
}

// findWeakNode scans the out-of-tree arcs of strong from its current arc for a neighbour one label below the
// active label. The arc found is removed from the list.
func (e *Engine) findWeakNode(strong int32) (a, weak int32) {
	nd := &e.nodes[strong]
	target := e.activeLabel() - 1
	for i := nd.nextArc; i < int32(len(nd.outOfTree)); i++ {
		e.stats.ArcScans++
		out := nd.outOfTree[i]
		ac := &e.arcs[out]
		if e.nodes[ac.to].label == target {
			weak = ac.to
		} else if e.nodes[ac.from].label == target {
			weak = ac.from
		} else {
			continue
		}
		nd.nextArc = i
		last := len(nd.outOfTree) - 1
		nd.outOfTree[i] = nd.outOfTree[last]
		nd.outOfTree = nd.outOfTree[:last]
		return out, weak
	}
	nd.nextArc = int32(len(nd.outOfTree))
	return none, none
}

// checkChildren advances nextScan to the next child sharing the node's label; without one, the node is relabeled.
func (e *Engine) checkChildren(current int32) {
	nd := &e.nodes[current]
	for ; nd.nextScan != none; nd.nextScan = e.nodes[nd.nextScan].next {
		if e.nodes[nd.nextScan].label == nd.label {
			return
		}
	}
	e.labelCount[nd.label]--
	nd.label++
	e.labelCount[nd.label]++
	e.stats.Relabels++
	nd.nextArc = 0
}

// processRoot walks the same-label part of the tree below strongRoot looking for a merge. When none exists the
// whole part has been relabeled, and the root goes back into its (new) bucket.
func (e *Engine) processRoot(strongRoot int32) {
	strongNode := strongRoot
	e.nodes[strongRoot].nextScan = e.nodes[strongRoot].childList

	if out, weak := e.findWeakNode(strongRoot); out != none {
		e.merge(weak, strongNode, out)
		e.pushExcess(strongRoot)
		return
	}
	e.checkChildren(strongRoot)

	for strongNode != none {
		for e.nodes[strongNode].nextScan != none {
			temp := e.nodes[strongNode].nextScan
			e.nodes[strongNode].nextScan = e.nodes[temp].next
			strongNode = temp
			e.nodes[strongNode].nextScan = e.nodes[strongNode].childList

			if out, weak := e.findWeakNode(strongNode); out != none {
				e.merge(weak, strongNode, out)
				e.pushExcess(strongRoot)
				return
			}
			e.checkChildren(strongNode)
		}
		if strongNode = e.nodes[strongNode].parent; strongNode != none {
			e.checkChildren(strongNode)
		}
	}

	e.addToBucket(strongRoot, e.nodes[strongRoot].label)
	if !e.lowestLabel {
		e.highestStrongLabel++
	}
}

// promoteZeroBucket moves strong roots left at label 0 (over-filled deficit roots) up to label 1.
func (e *Engine) promoteZeroBucket() {
	for e.buckets[0].start != none {
		root := e.popBucket(0)
		e.nodes[root].label = 1
		e.labelCount[0]--
		e.labelCount[1]++
		e.stats.Relabels++
		e.addToBucket(root, 1)
	}
}

// highestStrongRoot pops a strong root from the highest non-empty bucket. A bucket sitting above an empty label is a
// gap: its trees can never reach the sink, so they are lifted out of play.
func (e *Engine) highestStrongRoot() int32 {
	for i := e.highestStrongLabel; i > 0; i-- {
		if e.buckets[i].start == none {
			continue
		}
		e.highestStrongLabel = i
		if e.labelCount[i-1] != 0 {
			return e.popBucket(i)
		}
		for e.buckets[i].start != none {
			e.stats.Gaps++
			e.liftAll(e.popBucket(i))
		}
	}

	if e.buckets[0].start == none {
		return none
	}
	e.promoteZeroBucket()
	e.highestStrongLabel = 1
	return e.popBucket(1)
}

// lowestStrongRoot pops a strong root from the lowest non-empty bucket. A gap below it ends phase one: every node
// at or above the gap is lifted and forms the source side.
func (e *Engine) lowestStrongRoot() int32 {
	if e.lowestStrongLabel == 0 {
		e.promoteZeroBucket()
		e.lowestStrongLabel = 1
	}
	for i := e.lowestStrongLabel; i < e.numNodes; i++ {
		if e.buckets[i].start == none {
			continue
		}
		e.lowestStrongLabel = i
		if e.labelCount[i-1] == 0 {
			e.stats.Gaps++
			e.liftFrom(i)
			return none
		}
		return e.popBucket(i)
	}
	e.lowestStrongLabel = e.numNodes
	return none
}

// liftFrom moves every node labeled gap or higher to the lift label.
func (e *Engine) liftFrom(gap uint32) {
	for v := uint32(0); v < e.nodeCount; v++ {
		if nd := &e.nodes[v]; nd.label >= gap && nd.label < e.numNodes {
			e.labelCount[nd.label]--
			nd.label = e.numNodes
		}
	}
	for i := gap; i < e.numNodes; i++ {
		e.buckets[i] = bucket{start: none, end: none}
	}
}

func (e *Engine) phaseOne() {
	next := e.highestStrongRoot
	if e.lowestLabel {
		next = e.lowestStrongRoot
	}
	for root := next(); root != none; root = next() {
		e.processRoot(root)
	}
}

// minCut sums the capacity of arcs leaving the lifted set.
func (e *Engine) minCut() (cut int64) {
	for i := range e.arcs {
		a := &e.arcs[i]
		if e.nodes[a.from].label >= e.numNodes && e.nodes[a.to].label < e.numNodes {
			cut += a.capacity
		}
	}
	return cut
}
