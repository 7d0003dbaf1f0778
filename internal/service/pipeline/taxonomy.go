package pipeline

// facetLabel binds one classification label to the keywords that match
// it. Labels are declared in fixed order; the first matching label of a
// facet becomes that facet's primary pick.
type facetLabel struct {
	name     string
	keywords []string
}

var styleLabels = []facetLabel{
	{"casual", []string{"casual", "everyday", "comfortable", "relaxed", "simple"}},
	{"formal", []string{"formal", "business", "professional", "office", "corporate"}},
	{"streetwear", []string{"street", "urban", "hip-hop", "sneaker", "athletic"}},
	{"vintage", []string{"vintage", "retro", "classic", "old-school", "throwback"}},
	{"bohemian", []string{"boho", "bohemian", "hippie", "free-spirited", "flowy"}},
	{"minimalist", []string{"minimal", "simple", "clean", "basic", "neutral"}},
	{"glam", []string{"glam", "glamorous", "elegant", "luxury", "fancy"}},
	{"grunge", []string{"grunge", "edgy", "punk", "alternative", "dark"}},
}

var seasonLabels = []facetLabel{
	{"spring", []string{"spring", "floral", "pastel", "light", "fresh"}},
	{"summer", []string{"summer", "beach", "vacation", "hot", "sunny", "tropical"}},
	{"fall", []string{"fall", "autumn", "cozy", "warm", "layered"}},
	{"winter", []string{"winter", "cold", "warm", "layered", "cozy", "snow"}},
}

var categoryLabels = []facetLabel{
	{"tops", []string{"top", "shirt", "blouse", "sweater", "hoodie", "tank", "crop"}},
	{"bottoms", []string{"pants", "jeans", "skirt", "shorts", "leggings", "trousers"}},
	{"dresses", []string{"dress", "gown", "frock"}},
	{"outerwear", []string{"jacket", "coat", "blazer", "cardigan", "trench"}},
	{"footwear", []string{"shoes", "boots", "sneakers", "heels", "sandals", "flats"}},
	{"accessories", []string{"bag", "hat", "jewelry", "belt", "scarf", "sunglasses"}},
}

var occasionLabels = []facetLabel{
	{"work", []string{"work", "office", "professional", "business", "corporate"}},
	{"casual", []string{"casual", "everyday", "weekend", "relaxed"}},
	{"party", []string{"party", "night", "club", "celebration", "festive"}},
	{"date", []string{"date", "romantic", "dinner", "evening"}},
	{"sport", []string{"sport", "athletic", "gym", "workout", "active"}},
	{"formal_event", []string{"formal", "wedding", "gala", "event", "ceremony"}},
}
