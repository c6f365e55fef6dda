package dn

import "strings"

// Container composes a distinguished name one component at a time, root
// first. The following two values are identical:
//
//	"cn=UserName,ou=Users,dc=example,dc=org"
//	dn.DC("org").DC("example").OU("Users").CN("UserName").String()
type Container struct {
	kind   string
	name   string
	parent *Container
}

// OU starts a container with an organizational unit component.
func OU(name string) *Container { return &Container{kind: "ou", name: name} }

// DC starts a container with a domain component.
func DC(name string) *Container { return &Container{kind: "dc", name: name} }

// CN starts a container with a common name component.
func CN(name string) *Container { return &Container{kind: "cn", name: name} }

// OU appends an organizational unit component.
func (c *Container) OU(name string) *Container {
	return &Container{kind: "ou", name: name, parent: c}
}

// DC appends a domain component.
func (c *Container) DC(name string) *Container {
	return &Container{kind: "dc", name: name, parent: c}
}

// CN appends a common name component.
func (c *Container) CN(name string) *Container {
	return &Container{kind: "cn", name: name, parent: c}
}

// Kind returns the attribute type of the last component.
func (c *Container) Kind() string { return c.kind }

// Name returns the value of the last component.
func (c *Container) Name() string { return c.name }

// Parent returns the container this component was appended to.
func (c *Container) Parent() *Container { return c.parent }

func (c *Container) String() string {
	if c == nil {
		return ""
	}
	if c.parent == nil {
		return c.kind + "=" + c.name
	}
	return c.kind + "=" + c.name + "," + c.parent.String()
}

// Equal compares containers (or any stringer holding a DN) case-insensitively.
func (c *Container) Equal(other interface{ String() string }) bool {
	if other == nil {
		return c == nil
	}
	return strings.EqualFold(c.String(), other.String())
}
