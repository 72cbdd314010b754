package graph

import (
	"sort"

	"fortio.org/log"
)

// --- Cycle Detection ---

// buildReverseGraph returns, for every unit, the units that include it, and
// the number of dependencies each unit has (its in-degree in the reversed graph).
func buildReverseGraph(reg *Registry) (map[string][]string, map[string]int) {
	reverseAdj := make(map[string][]string, reg.Len())
	inDegree := make(map[string]int, reg.Len())
	for _, u := range reg.Units() {
		deps := u.Dependencies()
		inDegree[u.Path] = len(deps)
		for _, dep := range deps {
			reverseAdj[dep.Path] = append(reverseAdj[dep.Path], u.Path) // dep -> u in reverse graph
		}
	}
	return reverseAdj, inDegree
}

// DetectCycles runs Kahn's algorithm from the leaves up and returns the
// units likely involved in include cycles. Empty for an acyclic graph.
func DetectCycles(reg *Registry) map[string]bool {
	reverseAdj, inDegree := buildReverseGraph(reg)
	queue := []string{}
	for node, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, node)
		}
	}
	sort.Strings(queue)
	processed := 0
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		processed++
		for _, v := range reverseAdj[u] { // v includes u
			inDegree[v]--
			if inDegree[v] == 0 {
				queue = append(queue, v)
			}
		}
	}
	nodesInCycles := make(map[string]bool)
	if processed == reg.Len() {
		return nodesInCycles
	}
	log.LogVf("Cycle check processed %d of %d units", processed, reg.Len())
	for node, degree := range inDegree {
		if degree > 0 {
			nodesInCycles[node] = true
		}
	}
	return filterOutUnusedNodes(nodesInCycles, reg)
}

// isNodeDependedOn reports whether any unit of the current cycle set includes node.
func isNodeDependedOn(node string, reg *Registry, current map[string]bool) bool {
	for path := range current {
		if reg.Get(path).DependsOn(node) {
			return true
		}
	}
	return false
}

// filterOutUnusedNodes drops units left over by Kahn's pass only because they
// include a cycle member: repeatedly remove anything no remaining unit includes.
func filterOutUnusedNodes(nodesInCycles map[string]bool, reg *Registry) map[string]bool {
	log.LogVf("Refining cycle detection: initial candidates: %d", len(nodesInCycles))
	changed := true
	iteration := 0
	for changed {
		iteration++
		changed = false
		nodesToRemove := []string{}
		for node := range nodesInCycles {
			if !isNodeDependedOn(node, reg, nodesInCycles) {
				nodesToRemove = append(nodesToRemove, node)
				changed = true
			}
		}
		if changed {
			sort.Strings(nodesToRemove)
			log.LogVf("  Iteration %d: removing %d units not included within the cycle set: %v", iteration, len(nodesToRemove), nodesToRemove)
			for _, node := range nodesToRemove {
				delete(nodesInCycles, node)
			}
		}
	}
	log.LogVf("Refined cycle detection: %d units considered in cycles", len(nodesInCycles))
	return nodesInCycles
}
