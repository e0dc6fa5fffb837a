package authorize

import (
	"fmt"

	"github.com/casbin/casbin/v2/model"
)

// DefaultModel is a flat RBAC model with role inheritance and explicit deny.
const DefaultModel = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act, eft

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow)) && !some(where (p.eft == deny))

[matchers]
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

// LoadModel reads the model at path, or DefaultModel when path is empty.
func LoadModel(path string) (model.Model, error) {
	if path == "" {
		return model.NewModelFromString(DefaultModel)
	}
	m, err := model.NewModelFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load casbin model %q: %w", path, err)
	}
	return m, nil
}
