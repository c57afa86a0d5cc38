package domain

// ItemType groups shop items. Only outfits exist today.
type ItemType string

const ItemOutfit ItemType = "outfit"

// Item is a cosmetic sold in the barracks.
type Item struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Cost   int      `json:"cost"`
	Type   ItemType `json:"type"`
	Sprite string   `json:"sprite"`
}

// BossRequirement is the progress measure that unlocks a boss.
type BossRequirement string

const (
	RequireStreak BossRequirement = "streak"
	RequireQuests BossRequirement = "quests"
)

// Boss is a dungeon encounter unlocked by streaks or completed quests.
type Boss struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Requirement BossRequirement `json:"requirement"`
	Target      int             `json:"target"`
	Reward      Reward          `json:"reward"`
}

// Catalog holds the static shop and dungeon content.
type Catalog struct {
	Items         []Item
	Bosses        []Boss
	DefaultSprite string
}

// Item looks up a shop item by id.
func (c Catalog) Item(id string) (Item, bool) {
	for _, item := range c.Items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// Boss looks up a boss by id.
func (c Catalog) Boss(id string) (Boss, bool) {
	for _, boss := range c.Bosses {
		if boss.ID == id {
			return boss, true
		}
	}
	return Boss{}, false
}

// DefaultCatalog returns the stock barracks and dungeon. Sprites are
// file names resolved against assetBase.
func DefaultCatalog(assetBase string) Catalog {
	return Catalog{
		Items: []Item{
			{ID: "101", Name: "Ninja Outfit", Cost: 20, Type: ItemOutfit, Sprite: assetBase + "base.body.ninja2.png"},
			{ID: "102", Name: "Knight Outfit", Cost: 20, Type: ItemOutfit, Sprite: assetBase + "new.base.knight2.png"},
		},
		Bosses: []Boss{
			{ID: "b1", Name: "Procrastination Goblin", Requirement: RequireStreak, Target: 3, Reward: Reward{XP: 150, Gold: 50}},
			{ID: "b2", Name: "Homework Hydra", Requirement: RequireQuests, Target: 3, Reward: Reward{XP: 300, Gold: 100}},
			{ID: "b3", Name: "Final Exam Dragon", Requirement: RequireStreak, Target: 7, Reward: Reward{XP: 500, Gold: 250}},
		},
		DefaultSprite: assetBase + "base.body.png",
	}
}
