package cycles

import "github.com/a-peyrard/godigen/inject"

// Eager gets its partner from the provider while being built, before it can be cached.
type Eager struct {
	Partner *Partner
}

// @inject scope=app
func NewEager(partner inject.Provider[*Partner]) *Eager {
	return &Eager{Partner: partner.Get()}
}

type Partner struct {
	Eager *Eager
}

// @inject
func NewPartner(eager *Eager) *Partner {
	return &Partner{Eager: eager}
}

// Impatient does the same as Eager, through a lazy dependency.
type Impatient struct {
	Friend *Friend
}

// @inject scope=app
func NewImpatient(friend inject.Lazy[*Friend]) *Impatient {
	return &Impatient{Friend: friend.Get()}
}

type Friend struct {
	Impatient *Impatient
}

// @inject
func NewFriend(impatient *Impatient) *Friend {
	return &Friend{Impatient: impatient}
}

// Patient keeps the provider of its visitors for later.
type Patient struct {
	Visitors inject.Provider[*Visitor]
}

// @inject scope=app
func NewPatient(visitors inject.Provider[*Visitor]) *Patient {
	return &Patient{Visitors: visitors}
}

type Visitor struct {
	Patient *Patient
}

// @inject
func NewVisitor(patient *Patient) *Visitor {
	return &Visitor{Patient: patient}
}
