package model

import "strconv"

// sourceGlobalOwnerID is the owner id the source database uses for shared catalogue items.
const sourceGlobalOwnerID = 0

// Owner identifies who may select a catalogue item: either every known user
// or exactly one user.
type Owner struct {
	userID int64
	global bool
}

// GlobalOwner returns the owner of items visible to every roster user.
func GlobalOwner() Owner {
	return Owner{global: true}
}

// UserOwner returns the owner of items visible to a single user.
func UserOwner(userID int64) Owner {
	return Owner{userID: userID}
}

// OwnerFromSourceID converts the source owner column into an Owner.
func OwnerFromSourceID(id int64) Owner {
	if id == sourceGlobalOwnerID {
		return GlobalOwner()
	}
	return UserOwner(id)
}

// IsGlobal reports whether the item is shared with every user.
func (o Owner) IsGlobal() bool {
	return o.global
}

// UserID returns the owning user, ok is false for global items.
func (o Owner) UserID() (id int64, ok bool) {
	if o.global {
		return 0, false
	}
	return o.userID, true
}

func (o Owner) String() string {
	if o.global {
		return "global"
	}
	return "user:" + strconv.FormatInt(o.userID, 10)
}

// CatalogueItem is a food catalogue entry.
type CatalogueItem struct {
	ID    int64
	Name  string
	Kcals float64
	Owner Owner
}
