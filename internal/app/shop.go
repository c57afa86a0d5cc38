package app

import "questboard/internal/domain"

// BuyItem moves an item from the barracks into the student's inventory.
// The purchase is refused when the student cannot afford it, so gold
// never drops below zero.
func (g *GameService) BuyItem(studentID, itemID string) (domain.Student, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	student, err := g.studentLocked(studentID)
	if err != nil {
		return domain.Student{}, err
	}
	item, ok := g.catalog.Item(itemID)
	if !ok {
		return domain.Student{}, domain.ErrItemNotFound
	}
	if student.Owns(item.ID) {
		return domain.Student{}, domain.ErrAlreadyOwned
	}
	if student.Gold < item.Cost {
		return domain.Student{}, domain.ErrInsufficientGold
	}

	student.Gold -= item.Cost
	student.Inventory = append(student.Inventory, item)
	g.change(domain.ChangePurchase, student.ID, "", g.now())
	return snapshot(student), nil
}

// EquipOutfit wears an owned outfit. Equipping the outfit already worn
// takes it off again.
func (g *GameService) EquipOutfit(studentID, itemID string) (domain.Student, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	student, err := g.studentLocked(studentID)
	if err != nil {
		return domain.Student{}, err
	}
	var outfit *domain.Item
	for i := range student.Inventory {
		if student.Inventory[i].ID == itemID {
			outfit = &student.Inventory[i]
			break
		}
	}
	if outfit == nil {
		if _, ok := g.catalog.Item(itemID); !ok {
			return domain.Student{}, domain.ErrItemNotFound
		}
		return domain.Student{}, domain.ErrNotOwned
	}

	if student.CurrentBodySprite == outfit.Sprite {
		student.CurrentBodySprite = g.catalog.DefaultSprite
	} else {
		student.CurrentBodySprite = outfit.Sprite
	}
	g.change(domain.ChangeOutfit, student.ID, "", g.now())
	return snapshot(student), nil
}

// UnequipOutfit restores the default body sprite.
func (g *GameService) UnequipOutfit(studentID string) (domain.Student, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	student, err := g.studentLocked(studentID)
	if err != nil {
		return domain.Student{}, err
	}
	student.CurrentBodySprite = g.catalog.DefaultSprite
	g.change(domain.ChangeOutfit, student.ID, "", g.now())
	return snapshot(student), nil
}
