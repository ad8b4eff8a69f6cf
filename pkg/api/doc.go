// Package api exposes the admin console over HTTP.
//
// All routes live under /api/v1. Authentication endpoints are open (the
// login endpoint is rate limited); everything else sits behind the guard,
// which maps the access policy onto status codes:
//
//	401 {"error": "...", "return_to": "<requested path>"}  not signed in
//	403 {"error": "...", "redirect": "/dashboard"}         wrong role
//
// Route protection mirrors the console's navigation: organization CRUD is
// super-admin only, features and usage are for super admins and org admins,
// the member directory requires any authenticated principal.
package api
