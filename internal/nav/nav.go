// Package nav names the client routes and the navigation hook the state
// components use to move the user between views.
package nav

type Route string

const (
	RouteHome        Route = "/"
	RouteLogin       Route = "/login"
	RouteMarketplace Route = "/marketplace"
	RouteDashboard   Route = "/dashboard"
)

// Navigator switches the active view. Implemented by the rendering layer.
type Navigator interface {
	NavigateTo(route Route)
}

// Func adapts a plain function to the Navigator interface.
type Func func(route Route)

func (f Func) NavigateTo(route Route) {
	f(route)
}
