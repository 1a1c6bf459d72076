// internal/domain/models/clients.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Site is a physical kitchen location.
//
// Group and Chain are deprecated single references kept for older records;
// Groups and Chains are authoritative.
type Site struct {
	ID                 primitive.ObjectID   `bson:"_id" json:"_id"`
	SiteName           string               `bson:"siteName" json:"siteName" validate:"required,max=200" label:"Site name"`
	NameCI             string               `bson:"nameCi" json:"-"`
	SiteRef            string               `bson:"siteRef,omitempty" json:"siteRef,omitempty"`
	Addresses          []Address            `bson:"addresses" json:"addresses"`
	SiteEmails         []Email              `bson:"siteEmails" json:"siteEmails"`
	SiteContactNumbers []PhoneNumber        `bson:"siteContactNumbers" json:"siteContactNumbers"`
	Groups             []primitive.ObjectID `bson:"groups" json:"groups"`
	Chains             []primitive.ObjectID `bson:"chains" json:"chains"`
	Contacts           []primitive.ObjectID `bson:"contacts" json:"contacts"`
	Suppliers          []primitive.ObjectID `bson:"suppliers" json:"suppliers"`
	Group              *primitive.ObjectID  `bson:"group,omitempty" json:"group,omitempty"`
	Chain              *primitive.ObjectID  `bson:"chain,omitempty" json:"chain,omitempty"`
	Status             string               `bson:"status,omitempty" json:"status,omitempty"`
	Notes              string               `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt          time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// Group bundles sites that share an operator.
type Group struct {
	ID                  primitive.ObjectID   `bson:"_id" json:"_id"`
	GroupName           string               `bson:"groupName" json:"groupName" validate:"required,max=200" label:"Group name"`
	NameCI              string               `bson:"nameCi" json:"-"`
	Addresses           []Address            `bson:"addresses" json:"addresses"`
	GroupEmails         []Email              `bson:"groupEmails" json:"groupEmails"`
	GroupContactNumbers []PhoneNumber        `bson:"groupContactNumbers" json:"groupContactNumbers"`
	Sites               []primitive.ObjectID `bson:"sites" json:"sites"`
	Chains              []primitive.ObjectID `bson:"chains" json:"chains"`
	Contacts            []primitive.ObjectID `bson:"contacts" json:"contacts"`
	Chain               *primitive.ObjectID  `bson:"chain,omitempty" json:"chain,omitempty"`
	Notes               string               `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt           time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// Chain is a brand operating many sites and groups.
type Chain struct {
	ID                  primitive.ObjectID   `bson:"_id" json:"_id"`
	ChainName           string               `bson:"chainName" json:"chainName" validate:"required,max=200" label:"Chain name"`
	NameCI              string               `bson:"nameCi" json:"-"`
	Addresses           []Address            `bson:"addresses" json:"addresses"`
	ChainEmails         []Email              `bson:"chainEmails" json:"chainEmails"`
	ChainContactNumbers []PhoneNumber        `bson:"chainContactNumbers" json:"chainContactNumbers"`
	Sites               []primitive.ObjectID `bson:"sites" json:"sites"`
	Groups              []primitive.ObjectID `bson:"groups" json:"groups"`
	Contacts            []primitive.ObjectID `bson:"contacts" json:"contacts"`
	Notes               string               `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt           time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// Contact is a person attached to sites, groups, chains or suppliers.
type Contact struct {
	ID             primitive.ObjectID   `bson:"_id" json:"_id"`
	FirstName      string               `bson:"firstName" json:"firstName" validate:"required,max=100" label:"First name"`
	LastName       string               `bson:"lastName" json:"lastName" validate:"max=100" label:"Last name"`
	NameCI         string               `bson:"nameCi" json:"-"`
	Position       string               `bson:"position,omitempty" json:"position,omitempty"`
	ContactEmails  []Email              `bson:"contactEmails" json:"contactEmails"`
	ContactNumbers []PhoneNumber        `bson:"contactNumbers" json:"contactNumbers"`
	Sites          []primitive.ObjectID `bson:"sites" json:"sites"`
	Groups         []primitive.ObjectID `bson:"groups" json:"groups"`
	Chains         []primitive.ObjectID `bson:"chains" json:"chains"`
	Suppliers      []primitive.ObjectID `bson:"suppliers" json:"suppliers"`
	Site           *primitive.ObjectID  `bson:"site,omitempty" json:"site,omitempty"`
	Notes          string               `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt      time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// Supplier provides parts or services to sites.
type Supplier struct {
	ID                     primitive.ObjectID   `bson:"_id" json:"_id"`
	SupplierName           string               `bson:"supplierName" json:"supplierName" validate:"required,max=200" label:"Supplier name"`
	NameCI                 string               `bson:"nameCi" json:"-"`
	SupplierType           string               `bson:"supplierType,omitempty" json:"supplierType,omitempty"`
	Addresses              []Address            `bson:"addresses" json:"addresses"`
	SupplierEmails         []Email              `bson:"supplierEmails" json:"supplierEmails"`
	SupplierContactNumbers []PhoneNumber        `bson:"supplierContactNumbers" json:"supplierContactNumbers"`
	Sites                  []primitive.ObjectID `bson:"sites" json:"sites"`
	Contacts               []primitive.ObjectID `bson:"contacts" json:"contacts"`
	Notes                  string               `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt              time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt              time.Time            `bson:"updatedAt" json:"updatedAt"`
}
