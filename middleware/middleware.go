package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ekverified/app-backend/logging"
	"github.com/ekverified/app-backend/models"
	"github.com/ekverified/app-backend/utils"
)

type contextKey string

const claimsKey contextKey = "claims"

// AnyRole marks a rule that requires a valid token but no particular role.
const AnyRole = "*"

// adminRoles are every role above plain member.
var adminRoles = []string{
	models.RoleSecretary,
	models.RoleTreasurer,
	models.RoleChairperson,
	models.RoleSupervisoryCommittee,
	models.RoleCommitteeMember,
}

// Policy is the authorization table, keyed by rule name, evaluated by the one
// Authorize gate. Routes absent from the table are open. Finer checks (self
// vs chairperson, next approver in a workflow) stay in the services.
var Policy = map[string][]string{
	"members.list":       adminRoles,
	"members.update":     {AnyRole},
	"members.promote":    {models.RoleChairperson},
	"members.resetpin":   {models.RoleChairperson},
	"members.remove":     {models.RoleChairperson},
	"loans.list":         {AnyRole},
	"loans.update":       {models.RoleTreasurer, models.RoleSecretary, models.RoleChairperson},
	"queue.list":         adminRoles,
	"queue.submit":       adminRoles,
	"queue.approve":      {models.RoleChairperson},
	"polls.create":       {models.RoleSecretary, models.RoleChairperson},
	"polls.vote":         {AnyRole},
	"polls.close":        {models.RoleSecretary, models.RoleChairperson},
	"news.post":          {models.RoleSecretary, models.RoleChairperson},
	"welfare.list":       {AnyRole},
	"welfare.submit":     {AnyRole},
	"transactions.list":  {AnyRole},
	"transactions.post":  {models.RoleTreasurer, models.RoleChairperson},
	"reports.post":       {models.RoleTreasurer, models.RoleChairperson},
	"notifications.list": {AnyRole},
	"notifications.post": adminRoles,
	"notifications.read": {AnyRole},
	"signatures.update":  adminRoles,
	"logs.list":          {models.RoleSupervisoryCommittee, models.RoleChairperson},
	"logs.post":          adminRoles,
	"export":             {models.RoleSupervisoryCommittee},
}

// Authorize validates the bearer token, checks the caller's role against the
// policy rule and stashes the claims in the request context. Missing, invalid
// and expired tokens all come back as a plain 401.
func Authorize(rule string, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeAuthError(w, http.StatusUnauthorized, "missing token")
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ValidateToken(tokenStr)
		if err != nil {
			writeAuthError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		allowed, ok := Policy[rule]
		if !ok {
			logging.Logger.Errorf("Event ID: POLICY_RULE_MISSING, Description: No policy entry for rule %s, denying request", rule)
			writeAuthError(w, http.StatusForbidden, "access forbidden")
			return
		}
		if !roleAllowed(allowed, claims.Role) {
			logging.Logger.Warnf("Event ID: ACCESS_FORBIDDEN, Description: Role %s not allowed for rule %s", claims.Role, rule)
			writeAuthError(w, http.StatusForbidden, "access forbidden")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFrom returns the claims Authorize stored, or nil on open routes.
func ClaimsFrom(r *http.Request) *utils.Claims {
	claims, _ := r.Context().Value(claimsKey).(*utils.Claims)
	return claims
}

func roleAllowed(allowed []string, role string) bool {
	for _, a := range allowed {
		if a == AnyRole || a == role {
			return true
		}
	}
	return false
}

func writeAuthError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// EnableCORS mirrors the permissive CORS the frontend expects.
func EnableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
