package server

import "sort"

// Route is one registered endpoint.
type Route struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

var methodOrder = map[string]int{"GET": 0, "POST": 1, "PUT": 2, "PATCH": 3, "DELETE": 4}

// Routes lists the gin routes sorted by path, then method.
func (s *Server) Routes() []Route {
	info := s.engine.Routes()
	routes := make([]Route, 0, len(info))
	for _, r := range info {
		routes = append(routes, Route{Method: r.Method, Path: r.Path})
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return methodOrder[routes[i].Method] < methodOrder[routes[j].Method]
	})
	return routes
}
