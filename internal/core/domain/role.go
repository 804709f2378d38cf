package domain

// Role is the closed set of account kinds.
type Role string

const (
	RoleFarmer Role = "farmer"
	RoleBuyer  Role = "buyer"
)

// Capability names an action a route or service call requires.
type Capability string

const (
	CapCreateCrop       Capability = "create_crop"
	CapListCrops        Capability = "list_crops"
	CapGenerateContract Capability = "generate_contract"
)

// roleCapabilities defines what each role is allowed to do.
var roleCapabilities = map[Role][]Capability{
	RoleFarmer: {CapCreateCrop, CapListCrops, CapGenerateContract},
	RoleBuyer:  {CapListCrops, CapGenerateContract},
}

// ParseRole returns the Role named by s, or false if s is not a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	_, ok := roleCapabilities[r]
	return r, ok
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

// Can reports whether r grants the capability c.
func (r Role) Can(c Capability) bool {
	for _, allowed := range roleCapabilities[r] {
		if allowed == c {
			return true
		}
	}
	return false
}
