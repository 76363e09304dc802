package models

// Item is a purchasable shop item. The original bot branched over item-name
// keyed closures; here the shop is a closed set so effects can be applied
// with one exhaustive switch.
type Item string

const (
	ItemCat        Item = "Cat"
	ItemCar        Item = "Car"
	ItemMansion    Item = "Mansion"
	ItemMinecraft  Item = "Minecraft"
	ItemFishingRod Item = "Fishing Rod"
	ItemLaptop     Item = "Laptop"

	// ItemFish is not sold in the shop; it is caught with the Fishing Rod
	// and sold back at a fixed rate.
	ItemFish Item = "Fish"
)

// ShopItems lists every purchasable item in display order.
var ShopItems = []Item{ItemCat, ItemCar, ItemMansion, ItemMinecraft, ItemFishingRod, ItemLaptop}

// Price returns the shop price, or 0 if the item is not purchasable.
func (i Item) Price() int64 {
	switch i {
	case ItemCat:
		return 1000
	case ItemCar:
		return 5000
	case ItemMansion:
		return 20000
	case ItemMinecraft:
		return 50
	case ItemFishingRod:
		return 5000
	case ItemLaptop:
		return 10000
	}
	return 0
}

// Purchasable reports whether the item can be bought from the shop.
func (i Item) Purchasable() bool {
	return i.Price() > 0
}

// Description is the shop blurb for the item.
func (i Item) Description() string {
	switch i {
	case ItemCat:
		return "Buy a cat and it blesses you with 1000 Pop Coins daily!"
	case ItemCar:
		return "Use a car to go drivin' and earn up to 10000 Pop Coins!"
	case ItemMansion:
		return "Rent your mansion out and collect up to 30000 Pop Coins weekly!"
	case ItemMinecraft:
		return "Play Minecraft and win money!"
	case ItemFishingRod:
		return "Go fishing on the beach and get a chance to catch some fish!"
	case ItemLaptop:
		return "Buy a laptop and use it to post memes!"
	}
	return ""
}

// ParseItem maps a command option value to an Item.
func ParseItem(s string) (Item, bool) {
	switch Item(s) {
	case ItemCat, ItemCar, ItemMansion, ItemMinecraft, ItemFishingRod, ItemLaptop, ItemFish:
		return Item(s), true
	}
	return "", false
}

// Exchange rates for sellable inventory.
const (
	FishSellRate  = 25 // coins per fish
	KarmaSellRate = 2  // coins per karma unit
)
