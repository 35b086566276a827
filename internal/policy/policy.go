// Package policy answers the single authorization question of the API:
// may this principal perform this action on this resource.
package policy

import (
	"fmt"

	"chipset-komputer/internal/domain"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const (
	KindAdmin             = "admin"
	KindCart              = "cart"
	KindOrder             = "order"
	KindReview            = "review"
	KindStockNotification = "stock_notification"
)

const (
	ActionRead   = "read"
	ActionWrite  = "write"
	ActionCancel = "cancel"
	ActionAny    = "*"
)

// Admins match every policy line regardless of owner; everybody else must own
// the resource.
const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub.Role == p.sub && keyMatch(r.obj.Kind, p.obj) && (p.act == "*" || r.act == p.act) && (p.sub == "ADMIN" || (r.sub.ID != "" && r.sub.ID == r.obj.OwnerID))
`

var defaultPolicies = [][]string{
	{string(domain.RoleAdmin), "*", "*"},
	{string(domain.RoleCustomer), KindCart, "*"},
	{string(domain.RoleCustomer), KindOrder, ActionRead},
	{string(domain.RoleCustomer), KindOrder, ActionCancel},
	{string(domain.RoleCustomer), KindStockNotification, "*"},
}

// Subject and Resource are passed to casbin by value; the matcher reads their
// fields through reflection so they must stay plain strings.
type Subject struct {
	ID   string
	Role string
}

type Resource struct {
	Kind    string
	OwnerID string
}

func Owned(kind, ownerID string) Resource {
	return Resource{Kind: kind, OwnerID: ownerID}
}

type Enforcer struct {
	e *casbin.SyncedEnforcer
}

func NewEnforcer() (*Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("load policy model: %w", err)
	}
	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create enforcer: %w", err)
	}
	if _, err := e.AddPolicies(defaultPolicies); err != nil {
		return nil, fmt.Errorf("load policies: %w", err)
	}
	return &Enforcer{e: e}, nil
}

// MustNewEnforcer is NewEnforcer for wiring code and tests where the static
// model failing to load is a programming error.
func MustNewEnforcer() *Enforcer {
	e, err := NewEnforcer()
	if err != nil {
		panic(err)
	}
	return e
}

func (p *Enforcer) Can(user *domain.User, res Resource, action string) (bool, error) {
	if user == nil {
		return false, nil
	}
	sub := Subject{ID: user.ID, Role: string(user.Role)}
	ok, err := p.e.Enforce(sub, res, action)
	if err != nil {
		return false, fmt.Errorf("enforce %s/%s: %w", res.Kind, action, err)
	}
	return ok, nil
}

// Authorize is Can expressed as an error: ErrUnauthenticated without a user,
// ErrForbidden when the policy denies.
func (p *Enforcer) Authorize(user *domain.User, res Resource, action string) error {
	if user == nil {
		return domain.ErrUnauthenticated
	}
	ok, err := p.Can(user, res, action)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrForbidden
	}
	return nil
}

// IsAdmin checks the admin capability through the same policy set the
// ownership checks use.
func (p *Enforcer) IsAdmin(user *domain.User) (bool, error) {
	return p.Can(user, Resource{Kind: KindAdmin}, ActionAny)
}
