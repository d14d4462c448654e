package domain

import "testing"

func TestUserSnapshotFromDoc_AliasPrecedence(t *testing.T) {
	// displayName wins over name even when both are present.
	u := UserSnapshotFromDoc("u1", Doc{
		"displayName": "María",
		"name":        "maria-legacy",
		"mail":        "m@example.com",
		"phone":       "0414",
		"location":    "Maracaibo",
		"avatar":      "http://img/a.png",
	})
	if u.Name != "María" {
		t.Fatalf("Name = %q, want displayName to win", u.Name)
	}
	if u.Email != "m@example.com" {
		t.Fatalf("Email = %q, want the mail alias", u.Email)
	}
	if u.Phone != "0414" || u.Address != "Maracaibo" || u.PhotoURL != "http://img/a.png" {
		t.Fatalf("unexpected snapshot: %+v", u)
	}

	// phoneNumber has priority over phone.
	u = UserSnapshotFromDoc("u2", Doc{"phoneNumber": "0424", "phone": "0412"})
	if u.Phone != "0424" {
		t.Fatalf("Phone = %q, want phoneNumber to win", u.Phone)
	}
}

func TestUserSnapshotFromDoc_Placeholders(t *testing.T) {
	u := UserSnapshotFromDoc("u1", Doc{})
	if u.Name != PlaceholderName {
		t.Fatalf("Name = %q, want %q", u.Name, PlaceholderName)
	}
	for field, got := range map[string]string{
		"Email":   u.Email,
		"Phone":   u.Phone,
		"Address": u.Address,
	} {
		if got != PlaceholderUnknown {
			t.Fatalf("%s = %q, want %q", field, got, PlaceholderUnknown)
		}
	}
	// PhotoURL has no placeholder; absent stays empty.
	if u.PhotoURL != "" {
		t.Fatalf("PhotoURL = %q, want empty", u.PhotoURL)
	}
}

func TestPetSnapshotFromDoc_LegacyKeys(t *testing.T) {
	p := PetSnapshotFromDoc("p1", Doc{
		"name":  "Firulais",
		"type":  "perro",
		"image": "http://img/p.png",
	})
	if p.Species != "perro" {
		t.Fatalf("Species = %q, want legacy type key honored", p.Species)
	}
	if p.ImageURL != "http://img/p.png" {
		t.Fatalf("ImageURL = %q, want legacy image key honored", p.ImageURL)
	}

	// Current keys win over legacy ones.
	p = PetSnapshotFromDoc("p2", Doc{"species": "gato", "type": "perro"})
	if p.Species != "gato" {
		t.Fatalf("Species = %q, want species to win over type", p.Species)
	}
}

func TestPetSnapshotFromDoc_Placeholders(t *testing.T) {
	p := PetSnapshotFromDoc("p1", Doc{})
	if p.Name != PlaceholderName || p.Species != PlaceholderUnknown || p.Breed != PlaceholderUnknown {
		t.Fatalf("unexpected placeholders: %+v", p)
	}
}

func TestPetOwnerID(t *testing.T) {
	if got := PetOwnerID(Doc{"userId": "o1", "ownerId": "legacy"}); got != "o1" {
		t.Fatalf("PetOwnerID = %q, want userId to win", got)
	}
	if got := PetOwnerID(Doc{"ownerId": "legacy"}); got != "legacy" {
		t.Fatalf("PetOwnerID = %q, want legacy ownerId fallback", got)
	}
	if got := PetOwnerID(Doc{}); got != "" {
		t.Fatalf("PetOwnerID = %q, want empty", got)
	}
}
