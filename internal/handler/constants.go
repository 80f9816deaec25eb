// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	RouteRoot      = "/"
	RouteSuffixNew = "/new"

	RouteParamID   = "/{id}"
	RouteParamSlug = "/{slug}"

	RouteLogin    = "/login"
	RouteLogout   = "/logout"
	RouteRegister = "/register"

	RouteNews      = "/news"
	RoutePress     = "/press"
	RouteFootsteps = "/footsteps"
	RoutePrograms  = "/programs"
	RouteContact   = "/contact"
	RouteCrew      = "/crew"
	RouteMyPage    = "/mypage"

	RouteUsers     = "/users"
	RouteInquiries = "/inquiries"
	RouteEvents    = "/events"
	RouteConfig    = "/config"
	RouteAPIKeys   = "/api-keys"
)

// Admin redirect targets.
const (
	redirectAdmin          = "/admin"
	redirectLogin          = "/login"
	redirectAdminNews      = "/admin/news"
	redirectAdminPress     = "/admin/press"
	redirectAdminFootsteps = "/admin/footsteps"
	redirectAdminPrograms  = "/admin/programs"
	redirectAdminInquiries = "/admin/inquiries"
	redirectAdminCrew      = "/admin/crew"
	redirectAdminUsers     = "/admin/users"
	redirectAdminConfig    = "/admin/config"
	redirectAdminAPIKeys   = "/admin/api-keys"
)

// adminPerPage is the default page size for admin list views.
const adminPerPage = 20

// publicPerPage is the default page size for public list views.
const publicPerPage = 12
