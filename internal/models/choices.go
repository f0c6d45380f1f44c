package models

// Choice fields store a short code and display a longer name. Each choice
// type is closed: IsValid reports whether a value is one of the known codes.

type choice interface {
	~string
}

type choiceSet[T choice] struct {
	order []T
	names map[T]string
}

func newChoiceSet[T choice](pairs ...[2]string) choiceSet[T] {
	set := choiceSet[T]{names: make(map[T]string, len(pairs))}
	for _, pair := range pairs {
		code := T(pair[0])
		set.order = append(set.order, code)
		set.names[code] = pair[1]
	}
	return set
}

func (s choiceSet[T]) name(code T) string {
	return s.names[code]
}

func (s choiceSet[T]) valid(code T) bool {
	_, ok := s.names[code]
	return ok
}

func (s choiceSet[T]) codes() []T {
	return append([]T(nil), s.order...)
}

type County string

const (
	CountyCambridgeshire County = "C"
	CountyNorfolk        County = "N"
)

var counties = newChoiceSet[County](
	[2]string{"C", "Cambridgeshire"},
	[2]string{"N", "Norfolk"},
)

func (c County) DisplayName() string { return counties.name(c) }
func (c County) IsValid() bool       { return counties.valid(c) }

type District string

const (
	DistrictCambridge  District = "C"
	DistrictEly        District = "E"
	DistrictHuntingdon District = "H"
	DistrictWisbech    District = "W"
)

var districts = newChoiceSet[District](
	[2]string{"C", "Cambridge"},
	[2]string{"E", "Ely"},
	[2]string{"H", "Huntingdon"},
	[2]string{"W", "Wisbech"},
)

func (d District) DisplayName() string { return districts.name(d) }
func (d District) IsValid() bool       { return districts.valid(d) }

// Districts returns the district codes in display order.
func Districts() []District { return districts.codes() }

// RingingStatus says whether full-circle ringing happens at a tower.
type RingingStatus string

const (
	RingingRegular    RingingStatus = "R"
	RingingOccasional RingingStatus = "O"
	RingingNone       RingingStatus = "N"
)

var ringingStatuses = newChoiceSet[RingingStatus](
	[2]string{"R", "Regular"},
	[2]string{"O", "Occasional"},
	[2]string{"N", "None"},
)

func (r RingingStatus) DisplayName() string { return ringingStatuses.name(r) }
func (r RingingStatus) IsValid() bool       { return ringingStatuses.valid(r) }

type Day string

const (
	Monday    Day = "Mon"
	Tuesday   Day = "Tue"
	Wednesday Day = "Wed"
	Thursday  Day = "Thu"
	Friday    Day = "Fri"
	Saturday  Day = "Sat"
	Sunday    Day = "Sun"
)

var days = newChoiceSet[Day](
	[2]string{"Mon", "Monday"},
	[2]string{"Tue", "Tuesday"},
	[2]string{"Wed", "Wednesday"},
	[2]string{"Thu", "Thursday"},
	[2]string{"Fri", "Friday"},
	[2]string{"Sat", "Saturday"},
	[2]string{"Sun", "Sunday"},
)

// DisplayName is the full weekday name, or "" for an unset day.
func (d Day) DisplayName() string { return days.name(d) }
func (d Day) IsValid() bool       { return days.valid(d) }

type RingType string

const (
	RingTypeFullCircle    RingType = "Full-circle"
	RingTypeLightweight   RingType = "Lightweight"
	RingTypeCarillon      RingType = "Carillon"
	RingTypeClockChime    RingType = "C-Chime"
	RingTypeTubularChime  RingType = "T-Chime"
	RingTypeHemispherical RingType = "H-Chime"
	RingTypeChime         RingType = "Chime"
	RingTypeDisplay       RingType = "Display"
	RingTypeFuture        RingType = "Future"
	RingTypeOther         RingType = "Other"
)

var ringTypes = newChoiceSet[RingType](
	[2]string{"Full-circle", "Full-circle ring"},
	[2]string{"Lightweight", "Lightweight ring"},
	[2]string{"Carillon", "Carillon"},
	[2]string{"C-Chime", "Clock chime"},
	[2]string{"T-Chime", "Tubular chime"},
	[2]string{"H-Chime", "Hemispherical chime"},
	[2]string{"Chime", "Chime"},
	[2]string{"Display", "Display bells"},
	[2]string{"Future", "Future ring"},
	[2]string{"Other", "Other bells"},
)

func (r RingType) DisplayName() string { return ringTypes.name(r) }
func (r RingType) IsValid() bool       { return ringTypes.valid(r) }

type ContactRestriction string

const (
	RestrictionNone      ContactRestriction = "None"
	RestrictionBellsOnly ContactRestriction = "Bells only"
	RestrictionBandOnly  ContactRestriction = "Band only"
)

var restrictions = newChoiceSet[ContactRestriction](
	[2]string{"None", "None"},
	[2]string{"Bells only", "Bells only"},
	[2]string{"Band only", "Band only"},
)

func (r ContactRestriction) DisplayName() string { return restrictions.name(r) }
func (r ContactRestriction) IsValid() bool       { return restrictions.valid(r) }

type ContactRole string

const (
	RoleContact       ContactRole = "Contact"
	RoleTowerCaptain  ContactRole = "Tower Captain"
	RoleRingingMaster ContactRole = "Ringing Master"
	RoleSteeplekeeper ContactRole = "Steeplekeeper"
)

var roles = newChoiceSet[ContactRole](
	[2]string{"Contact", "Other contact"},
	[2]string{"Tower Captain", "Tower Captain"},
	[2]string{"Ringing Master", "Ringing Master"},
	[2]string{"Steeplekeeper", "Steeplekeeper"},
)

func (r ContactRole) DisplayName() string { return roles.name(r) }
func (r ContactRole) IsValid() bool       { return roles.valid(r) }

type ContactType string

const (
	ContactTypeEmail ContactType = "Email"
	ContactTypePhone ContactType = "Phone"
	ContactTypeOther ContactType = "Other"
)

var contactTypes = newChoiceSet[ContactType](
	[2]string{"Email", "Email"},
	[2]string{"Phone", "Phone"},
	[2]string{"Other", "Other"},
)

func (c ContactType) DisplayName() string { return contactTypes.name(c) }
func (c ContactType) IsValid() bool       { return contactTypes.valid(c) }
