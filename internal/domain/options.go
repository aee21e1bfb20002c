package domain

// DoorTypeOption describes a door type offered by the wizard.
// Label is the value stored in door_specifications.door_type.
type DoorTypeOption struct {
	Key       DoorType `json:"key"`
	Name      string   `json:"name"`
	Label     string   `json:"label"`
	Materials []string `json:"materials"`
}

var BuildingTypes = []string{
	"Independent House / Villa",
	"Apartment / Residential Complex",
	"Commercial",
	"Office Space",
	"Other",
}

var ConstructionStages = []string{
	"Foundation",
	"Walls",
	"Roofing / Slab",
	"Plastering",
	"Ready for Door Work",
}

var PaymentMethods = []string{
	"Bank Transfer",
	"Cash",
	"Advance Payment",
}

var LeadSources = []string{
	"Walk-in",
	"Referral",
	"Online",
	"Advertisement",
	"Architect Reference",
	"Contractor Reference",
	"Other",
}

var PriorityLevels = []string{
	"Hot",
	"Warm",
	"Cold",
}

// LegacySpecialDoorLabel is an older stored label for specialDoor
const LegacySpecialDoorLabel = "Special / Sliding / Folding / Fire-rated"

// DoorTypeOptions lists door types in canonical order
var DoorTypeOptions = []DoorTypeOption{
	{Key: DoorTypeMain, Name: "Main Door", Label: "Main Door", Materials: []string{"Teak Wood", "Solid Core", "Designer Laminate", "Metal/Steel", "Other"}},
	{Key: DoorTypeInterior, Name: "Interior Door", Label: "Interior Door", Materials: []string{"Flush Door", "Moulded Door", "Laminated / Veneer", "WPC", "Other"}},
	{Key: DoorTypeBathroom, Name: "Bathroom Door", Label: "Bathroom Door", Materials: []string{"PVC/FRP", "WPC", "Water-proof Laminate", "Other"}},
	{Key: DoorTypePooja, Name: "Pooja Door", Label: "Pooja Door", Materials: []string{"Wood Carved", "Glass", "Laminate Design", "Other"}},
	{Key: DoorTypeBalcony, Name: "Balcony Door", Label: "Balcony Door", Materials: []string{"UPVC", "Aluminium", "Glass", "Other"}},
	{Key: DoorTypeKitchenUtility, Name: "Kitchen Utility Door", Label: "Kitchen Utility Door", Materials: []string{"WPC", "Laminated", "Steel", "Other"}},
	{Key: DoorTypeGlass, Name: "Glass Door", Label: "Glass Door", Materials: []string{"Full Glass", "Partial Glass", "Frame Glass"}},
	{Key: DoorTypeFireExit, Name: "Fire Exit Door", Label: "Fire Exit Door", Materials: []string{"Fire Rated Steel Door", "With Panic Bar"}},
	{Key: DoorTypeSpecial, Name: LegacySpecialDoorLabel, Label: "Special Door", Materials: []string{"Specify"}},
}

// DoorTypeOptionFor returns the option for a door key
func DoorTypeOptionFor(key DoorType) (DoorTypeOption, bool) {
	for _, opt := range DoorTypeOptions {
		if opt.Key == key {
			return opt, true
		}
	}
	return DoorTypeOption{}, false
}

// DoorTypeLabel returns the stored label for a door key
func DoorTypeLabel(key DoorType) string {
	if opt, ok := DoorTypeOptionFor(key); ok {
		return opt.Label
	}
	return string(key)
}

// DoorTypeFromLabel resolves a stored label back to its door key.
// Unknown labels map to DoorTypeOther.
func DoorTypeFromLabel(label string) DoorType {
	if label == LegacySpecialDoorLabel {
		return DoorTypeSpecial
	}
	for _, opt := range DoorTypeOptions {
		if opt.Label == label {
			return opt.Key
		}
	}
	return DoorTypeOther
}

// Options is the full set of enumerations exposed to clients
type Options struct {
	BuildingTypes      []string         `json:"buildingTypes"`
	ConstructionStages []string         `json:"constructionStages"`
	DoorTypes          []DoorTypeOption `json:"doorTypes"`
	PaymentMethods     []string         `json:"paymentMethods"`
	LeadSources        []string         `json:"leadSources"`
	PriorityLevels     []string         `json:"priorityLevels"`
}

// AllOptions returns every option set
func AllOptions() Options {
	return Options{
		BuildingTypes:      BuildingTypes,
		ConstructionStages: ConstructionStages,
		DoorTypes:          DoorTypeOptions,
		PaymentMethods:     PaymentMethods,
		LeadSources:        LeadSources,
		PriorityLevels:     PriorityLevels,
	}
}
