// Package scope decides which users, projects and tasks a requester may see or write.
//
// Every decision is a row in the rule tables below, keyed by (role, kind). A pair without a
// row resolves to an empty Spec, so missing permissions fail closed.
package scope

import "github.com/noah-isme/teamboard-api/internal/models"

// Kind is the entity family being queried.
type Kind string

const (
	KindUser    Kind = "user"
	KindProject Kind = "project"
	KindTask    Kind = "task"
	// KindActivity is the persisted activity log.
	KindActivity Kind = "activity"
)

// Requester is the authenticated caller.
type Requester struct {
	ID     uint
	Role   models.Role
	Active bool
}

// Params carries the optional query parameters that narrow a scope.
type Params struct {
	ProjectID *uint
	Dashboard bool
}

// Spec is a declarative filter over one entity kind. The zero value of every field except
// Empty means "no restriction"; Empty short-circuits to no rows.
type Spec struct {
	Kind  Kind
	Empty bool

	// users
	ActiveOnly bool
	Role       models.Role

	// projects: assigned manager. tasks: assigned employee.
	AssignedToID *uint

	// tasks
	ProjectID        *uint
	ProjectManagerID *uint
}

// None returns a Spec that matches nothing.
func None(kind Kind) Spec {
	return Spec{Kind: kind, Empty: true}
}

// All returns a Spec that matches every row of kind.
func All(kind Kind) Spec {
	return Spec{Kind: kind}
}

// WithProject narrows a task Spec to one project. Other kinds are returned unchanged.
func (s Spec) WithProject(id *uint) Spec {
	if s.Kind != KindTask || id == nil {
		return s
	}
	projectID := *id
	s.ProjectID = &projectID
	return s
}

type ruleKey struct {
	role models.Role
	kind Kind
}

type rule func(r Requester, p Params) Spec

var readRules = map[ruleKey]rule{
	{models.RoleSupermanager, KindUser}: func(_ Requester, p Params) Spec {
		return Spec{Kind: KindUser, ActiveOnly: p.Dashboard}
	},
	{models.RoleSupermanager, KindProject}: func(Requester, Params) Spec {
		return All(KindProject)
	},
	{models.RoleSupermanager, KindTask}: func(_ Requester, p Params) Spec {
		return All(KindTask).WithProject(p.ProjectID)
	},
	{models.RoleManager, KindProject}: func(r Requester, _ Params) Spec {
		id := r.ID
		return Spec{Kind: KindProject, AssignedToID: &id}
	},
	{models.RoleManager, KindTask}: func(r Requester, p Params) Spec {
		// A project filter outside the manager's projects matches nothing because both
		// conditions must hold.
		id := r.ID
		return Spec{Kind: KindTask, ProjectManagerID: &id}.WithProject(p.ProjectID)
	},
	{models.RoleManager, KindUser}: func(Requester, Params) Spec {
		return Spec{Kind: KindUser, Role: models.RoleEmployee}
	},
	{models.RoleEmployee, KindTask}: func(r Requester, _ Params) Spec {
		id := r.ID
		return Spec{Kind: KindTask, AssignedToID: &id}
	},
	{models.RoleSupermanager, KindActivity}: func(Requester, Params) Spec {
		return All(KindActivity)
	},
}

// createRules lists who may create which kind.
var createRules = map[ruleKey]struct{}{
	{models.RoleSupermanager, KindUser}:    {},
	{models.RoleSupermanager, KindProject}: {},
	{models.RoleSupermanager, KindTask}:    {},
	{models.RoleManager, KindTask}:         {},
	{models.RoleEmployee, KindTask}:        {},
}

// updateRules lists who may modify rows inside their scope.
var updateRules = map[ruleKey]struct{}{
	{models.RoleSupermanager, KindUser}:    {},
	{models.RoleSupermanager, KindProject}: {},
	{models.RoleSupermanager, KindTask}:    {},
	{models.RoleManager, KindTask}:         {},
	{models.RoleEmployee, KindTask}:        {},
}

// deleteRules lists who may delete (or deactivate) inside their scope.
var deleteRules = map[ruleKey]struct{}{
	{models.RoleSupermanager, KindUser}:    {},
	{models.RoleSupermanager, KindProject}: {},
	{models.RoleSupermanager, KindTask}:    {},
	{models.RoleManager, KindTask}:         {},
}

// Resolve returns the rows of kind visible to the requester.
func Resolve(kind Kind, r Requester, p Params) Spec {
	if !r.Valid() {
		return None(kind)
	}
	fn, ok := readRules[ruleKey{r.Role, kind}]
	if !ok {
		return None(kind)
	}
	return fn(r, p)
}

// CanRead reports whether any read rule exists for the requester and kind.
func CanRead(kind Kind, r Requester) bool {
	if !r.Valid() {
		return false
	}
	_, ok := readRules[ruleKey{r.Role, kind}]
	return ok
}

// CanCreate reports whether the requester may create rows of kind.
func CanCreate(kind Kind, r Requester) bool {
	if !r.Valid() {
		return false
	}
	_, ok := createRules[ruleKey{r.Role, kind}]
	return ok
}

// CanUpdate reports whether the requester may modify rows of kind within their scope.
func CanUpdate(kind Kind, r Requester) bool {
	if !r.Valid() {
		return false
	}
	_, ok := updateRules[ruleKey{r.Role, kind}]
	return ok
}

// CanDelete reports whether the requester may delete rows of kind within their scope.
func CanDelete(kind Kind, r Requester) bool {
	if !r.Valid() {
		return false
	}
	_, ok := deleteRules[ruleKey{r.Role, kind}]
	return ok
}

// Valid reports whether the requester is an active user with a known role.
func (r Requester) Valid() bool {
	return r.ID != 0 && r.Active && models.ParseRole(string(r.Role)) != ""
}
