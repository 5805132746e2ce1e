package model

// Datacenter is one datacenter registered under a region.
type Datacenter struct {
	Name string
}

// User is an account in the identity directory.
type User struct {
	UUID  string
	Login string
}
