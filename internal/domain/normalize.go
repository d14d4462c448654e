// Field-name normalization for store documents.
//
// User and pet records were written by several client generations, so the
// same concept appears under different keys ("phoneNumber" vs "phone",
// "displayName" vs "name"). The accepted aliases per canonical field are
// declared once in the tables below; the snapshot builders consult them in
// order and pick the first non-empty value, so the alias contract is explicit
// and testable in isolation.
package domain

// Display placeholders used when a source document lacks a field. Matches the
// Spanish-language UI copy.
const (
	PlaceholderName    = "Sin nombre"
	PlaceholderUnknown = "No especificado"
)

// userAliases maps each canonical UserSnapshot field to its accepted source
// keys, in priority order.
var userAliases = map[string][]string{
	"name":     {"displayName", "name", "userName", "fullName"},
	"email":    {"email", "mail"},
	"phone":    {"phoneNumber", "phone"},
	"address":  {"address", "location"},
	"photoURL": {"photoURL", "photo", "avatar"},
}

// petAliases covers the pet-record drift: older records used "type" for the
// species and "image" for the photo URL.
var petAliases = map[string][]string{
	"species":  {"species", "type"},
	"imageUrl": {"imageUrl", "image", "photoURL"},
	"ownerId":  {"userId", "ownerId"},
}

// pickAlias returns the first non-empty string among the aliased keys.
func pickAlias(doc Doc, aliases []string) string {
	for _, k := range aliases {
		if v := DocString(doc, k); v != "" {
			return v
		}
	}
	return ""
}

// PetOwnerID returns the owning user's ID from a raw pet document,
// accepting both the current "userId" key and the legacy "ownerId".
func PetOwnerID(doc Doc) string {
	return pickAlias(doc, petAliases["ownerId"])
}

// UserSnapshotFromDoc normalizes a raw user document into the canonical
// snapshot shape. Missing fields become display placeholders rather than
// empty strings, matching what the UI renders.
func UserSnapshotFromDoc(id string, doc Doc) *UserSnapshot {
	u := &UserSnapshot{
		ID:       id,
		Name:     pickAlias(doc, userAliases["name"]),
		Email:    pickAlias(doc, userAliases["email"]),
		Phone:    pickAlias(doc, userAliases["phone"]),
		Address:  pickAlias(doc, userAliases["address"]),
		PhotoURL: pickAlias(doc, userAliases["photoURL"]),
	}
	if u.Name == "" {
		u.Name = PlaceholderName
	}
	if u.Email == "" {
		u.Email = PlaceholderUnknown
	}
	if u.Phone == "" {
		u.Phone = PlaceholderUnknown
	}
	if u.Address == "" {
		u.Address = PlaceholderUnknown
	}
	return u
}

// PetSnapshotFromDoc normalizes a raw pet document into the canonical
// snapshot shape, applying display placeholders for absent fields.
func PetSnapshotFromDoc(id string, doc Doc) *PetSnapshot {
	p := &PetSnapshot{
		ID:          id,
		Name:        DocString(doc, "name"),
		Species:     pickAlias(doc, petAliases["species"]),
		Breed:       DocString(doc, "breed"),
		Age:         DocString(doc, "age"),
		Gender:      DocString(doc, "gender"),
		Size:        DocString(doc, "size"),
		Description: DocString(doc, "description"),
		ImageURL:    pickAlias(doc, petAliases["imageUrl"]),
		OwnerID:     pickAlias(doc, petAliases["ownerId"]),
	}
	if p.Name == "" {
		p.Name = PlaceholderName
	}
	if p.Species == "" {
		p.Species = PlaceholderUnknown
	}
	if p.Breed == "" {
		p.Breed = PlaceholderUnknown
	}
	return p
}
