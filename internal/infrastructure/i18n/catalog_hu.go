package i18n

// hungarianCatalog maps English badge phrases to Hungarian. Tasks and
// flavor texts fall back to English until translated.
var hungarianCatalog = map[string]string{
	// Streak badges
	"Persistent":  "Kitartó",
	"Determined":  "Elszánt",
	"Purposeful":  "Céltudatos",
	"Tireless":    "Fáradhatatlan",
	"Iron-Willed": "Vasakaratú",

	// Feedback and onboarding
	"Source of Inspiration": "Ihletforrás",
	"Seeing Clearly":        "Tisztánlátó",
	"Hive Mind":             "Kaptár-elme",

	// Progress badges
	"The Hardest of All": "A legnehezebb mind közül",
	"Gaining Momentum":   "Lendületben",
	"Foundation":         "Alapozás",
	"Solid Basics":       "Szilárd alapok",
	"Getting There":      "Jó úton",

	// Referral
	"Together":     "Együtt",
	"Messenger":    "Hírvivő",
	"Trendsetter":  "Trendteremtő",

	// Unit badges
	"Baby Steps":                      "Első lépések",
	"Tools at the Ready":              "Kéznél a szerszám",
	"The Language of Structure":       "A szerkezet nyelve",
	"The Language of Presentation":    "A megjelenés nyelve",
	"Published Author":                "Publikált szerző",
	"Painting like Mondrian":          "Festés Mondrian módra",
	"Calling Card":                    "Névjegykártya",
	"From XS to XXL":                  "XS-től XXL-ig",
	"Floating Boxes":                  "Lebegő dobozok",
	"Recycled":                        "Újrahasznosítva",
	"A Happy Couple":                  "Boldog pár",
	"The Big Move":                    "A nagy költözés",
	"Branching Tree":                  "Elágazó fa",
	"A Different Kind of Calculator":  "Egy másfajta számológép",
	"X, Y, and Z":                     "X, Y és Z",
	"Deja Vu":                         "Déjà vu",
	"Red Pill, Blue Pill":             "Piros pirula, kék pirula",
	"The Little Robots":               "A kis robotok",
	"The Ultimate List":               "A nagy lista",
	"Librarian":                       "Könyvtáros",

	// Random and behavior
	"Dr. Watson":      "Dr. Watson",
	"Night Owl":       "Éjjeli bagoly",
	"Early Bird":      "Korai madár",
	"Weekend Warrior": "Hétvégi harcos",
	"Lucky":           "Szerencsés",
	"A Fresh Start":   "Új kezdet",
}
