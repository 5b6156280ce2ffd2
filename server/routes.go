package server

import "github.com/posterplay/auth-service/ratelimit"

func (s *Server) initRoutes() {
	// Method mismatches answer 405 with a JSON body inside each handler, so
	// routes are registered without method prefixes.
	s.RegisterRouteFunc(RouteLogin,
		ChainMiddleware(s.Login(), s.APIMiddleware(ratelimit.Relaxed)...))
	s.RegisterRouteFunc(RouteSpotifyCallback,
		ChainMiddleware(s.SpotifyCallback(), s.APIMiddleware(ratelimit.Relaxed)...))

	s.RegisterRouteFunc(RouteMe,
		ChainMiddleware(s.Me(), s.APIMiddleware(ratelimit.Relaxed)...))
	s.RegisterRouteFunc(RouteLogout,
		ChainMiddleware(s.Logout(), s.APIMiddleware(ratelimit.Relaxed)...))
	s.RegisterRouteFunc(RouteSpotifyLogout,
		ChainMiddleware(s.SpotifyLogout(), s.APIMiddleware(ratelimit.Relaxed)...))

	s.RegisterRouteFunc(RouteDeveloperToken,
		ChainMiddleware(s.DeveloperToken(), s.APIMiddleware(ratelimit.Relaxed)...))
	s.RegisterRouteFunc(RouteStoreToken,
		ChainMiddleware(s.StoreToken(), s.APIMiddleware(ratelimit.Strict)...))
}
