package compflow

// VisitFunc is called for each component reached by WalkDependencies,
// preorder: the root first with a zero parent, then each dependency with
// its dependent as parent. A component reachable along more than one
// path is visited once per path.
type VisitFunc func(component, parent Component)

// WalkDependencies visits root and every component reachable from it
// through dependencies, preorder. It assumes the registry holds a DAG;
// a cycle makes it recurse forever.
func WalkDependencies(reg *Registry, root Component, visit VisitFunc) {
	visit(root, zeroComponent)
	walkDependencies(reg, root, visit)
}

func walkDependencies(reg *Registry, c Component, visit VisitFunc) {
	for _, dep := range reg.GetDependencies(c) {
		visit(dep, c)
		walkDependencies(reg, dep, visit)
	}
}

// DependencySubgraph returns the dependency graph reachable from root:
// every component it depends on transitively, mapped to its own
// dependency list. A component that appears only as someone else's
// dependency, and has none of its own, still gets an entry with an
// empty slice, so RunOrder sees every node that must be ordered.
func DependencySubgraph(reg *Registry, root Component) map[Component][]Component {
	graph := make(map[Component][]Component)
	buildSubgraph(reg, root, graph)
	return graph
}

func buildSubgraph(reg *Registry, c Component, graph map[Component][]Component) {
	if _, ok := graph[c]; ok {
		return
	}
	deps := reg.GetDependencies(c)
	graph[c] = deps
	for _, dep := range deps {
		buildSubgraph(reg, dep, graph)
	}
}

// Subgraphs partitions components into its disjoint connected groups,
// following both dependency and dependent edges, restricted to the
// given set. A run driven group-by-group can feed each partition
// through Run independently, which is what RunIncremental does. The
// order of the returned groups, and of components within a group, is
// unspecified.
func Subgraphs(reg *Registry, components []Component) [][]Component {
	set := make(map[Component]struct{}, len(components))
	for _, c := range components {
		set[c] = struct{}{}
	}

	adjacency := make(map[Component]map[Component]struct{}, len(set))
	addEdge := func(a, b Component) {
		if adjacency[a] == nil {
			adjacency[a] = make(map[Component]struct{})
		}
		adjacency[a][b] = struct{}{}
	}
	for c := range set {
		for _, dep := range reg.GetDependencies(c) {
			if _, ok := set[dep]; ok {
				addEdge(c, dep)
				addEdge(dep, c)
			}
		}
		for _, dependent := range reg.GetDependents(c) {
			if _, ok := set[dependent]; ok {
				addEdge(c, dependent)
				addEdge(dependent, c)
			}
		}
	}

	visited := make(map[Component]struct{}, len(set))
	var groups [][]Component
	for c := range set {
		if _, ok := visited[c]; ok {
			continue
		}
		var group []Component
		queue := []Component{c}
		visited[c] = struct{}{}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			group = append(group, cur)
			for n := range adjacency[cur] {
				if _, ok := visited[n]; !ok {
					visited[n] = struct{}{}
					queue = append(queue, n)
				}
			}
		}
		groups = append(groups, group)
	}
	return groups
}

// RunOrder computes a valid execution order for roots and everything
// they transitively depend on, by Kahn's algorithm over their combined
// dependency subgraph. It returns ErrCyclicDependency if the graph is
// not acyclic; breaking a cycle automatically is not attempted.
func RunOrder(reg *Registry, roots []Component) ([]Component, error) {
	graph := make(map[Component][]Component)
	for _, root := range roots {
		buildSubgraph(reg, root, graph)
	}
	return toposort(graph)
}

func toposort(graph map[Component][]Component) ([]Component, error) {
	inDegree := make(map[Component]int, len(graph))
	dependentsOf := make(map[Component][]Component)

	for c, deps := range graph {
		inDegree[c] = len(deps)
		for _, d := range deps {
			dependentsOf[d] = append(dependentsOf[d], c)
		}
	}

	queue := make([]Component, 0, len(graph))
	for c, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, c)
		}
	}

	order := make([]Component, 0, len(graph))
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		order = append(order, c)
		for _, dependent := range dependentsOf[c] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(order) != len(graph) {
		return nil, ErrCyclicDependency
	}
	return order, nil
}
