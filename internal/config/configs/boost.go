package configs

// Boost tunes the featured-placement carousel. Defaults match the product
// rules: ten slots, at most two listings per seller in a batch, paid boosts
// weighted three to one against free boosts.
type Boost struct {
	// CarouselSlots is the maximum number of boosts returned per featured
	// request.
	CarouselSlots int `env:"CAROUSEL_SLOTS" envDefault:"10"`
	// SellerCap limits how many slots of one batch a single seller may
	// occupy.
	SellerCap int `env:"SELLER_CAP" envDefault:"2"`
}
