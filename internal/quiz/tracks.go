package quiz

// Track is the coarse three-tier classification that selects the visible
// recommendation texts. Its thresholds are independent of the quiz bands.
type Track string

const (
	TrackSocial Track = "social"
	TrackTech   Track = "tech"
	TrackOther  Track = "other"
)

// TrackFor classifies a final total into a recommendation track.
func TrackFor(total int) Track {
	switch {
	case total > 20:
		return TrackOther
	case total > 10:
		return TrackTech
	default:
		return TrackSocial
	}
}

var recommendations = map[Track][]string{
	TrackTech: {
		"מכינות/מסגרות עם דגש טכנולוגי/מחשובי/מתמטי",
		"התנדבות בהוראת תכנות לנוער / מרכזי מחשבים קהילתיים",
		"פרויקטי רובוטיקה/סייבר לנוער, עזרה בהכנה לבגרות מתמטיקה",
	},
	TrackSocial: {
		"התנדבות חברתית: סיוע לקשישים/ילדים, חונכות וליווי, קהילה ורווחה",
		"הדרכה בתנועות נוער, פרויקטי קהילה ושיקום",
		"מרכזי תמיכה ושירות לאוכלוסיות מוחלשות",
	},
	TrackOther: {
		"מסגרות מאתגרות / שטח ולוגיסטיקה / סביבה וקיימות",
		"כיתות מנהיגות צעירה, פרויקטים ייעודיים בקהילה",
		"מסגרות חירום/סיוע בשטח (בהתאם לגיל וכללים), התנדבות חקלאית",
	},
}

// Recommendations returns the suggestion texts for a track.
func Recommendations(t Track) []string {
	return recommendations[t]
}
