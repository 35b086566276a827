package services

import (
	"context"

	"chipset-komputer/internal/domain"
	"chipset-komputer/internal/policy"
	"chipset-komputer/internal/repository"
)

type CartService struct {
	store  repository.Store
	policy *policy.Enforcer
}

func NewCartService(store repository.Store, p *policy.Enforcer) *CartService {
	return &CartService{store: store, policy: p}
}

func (s *CartService) List(ctx context.Context, user *domain.User) (domain.Cart, error) {
	if user == nil {
		return domain.Cart{}, domain.ErrUnauthenticated
	}
	items, err := s.store.Carts().ListByUser(ctx, user.ID)
	if err != nil {
		return domain.Cart{}, err
	}
	return domain.NewCart(items), nil
}

// Add puts qty units of a product in the cart, merging with an existing line.
// The product row stays locked until the line is written so two concurrent
// adds cannot both pass the stock check.
func (s *CartService) Add(ctx context.Context, user *domain.User, productID string, qty int) (*domain.CartItem, error) {
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	if qty < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	var item *domain.CartItem
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		p, err := tx.Products().FindByIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil || !p.IsActive {
			return domain.ErrProductNotFound
		}

		existing, err := tx.Carts().FindByUserAndProduct(ctx, user.ID, productID)
		if err != nil {
			return err
		}
		want := qty
		if existing != nil {
			want += existing.Quantity
		}
		if want > p.Stock {
			return domain.ErrInsufficientStock
		}

		if existing != nil {
			if err := tx.Carts().UpdateQuantity(ctx, existing.ID, want); err != nil {
				return err
			}
			existing.Quantity = want
			item = existing
		} else {
			item = &domain.CartItem{UserID: user.ID, ProductID: productID, Quantity: qty}
			if err := tx.Carts().Create(ctx, item); err != nil {
				return err
			}
		}
		item.Product = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateQuantity sets the quantity of a line owned by user.
func (s *CartService) UpdateQuantity(ctx context.Context, user *domain.User, itemID string, qty int) (*domain.CartItem, error) {
	if qty < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	var item *domain.CartItem
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		item, err = s.ownedItem(ctx, tx, user, itemID)
		if err != nil {
			return err
		}

		p, err := tx.Products().FindByIDForUpdate(ctx, item.ProductID)
		if err != nil {
			return err
		}
		if p == nil || !p.IsActive {
			return domain.ErrProductNotFound
		}
		if qty > p.Stock {
			return domain.ErrInsufficientStock
		}

		if err := tx.Carts().UpdateQuantity(ctx, item.ID, qty); err != nil {
			return err
		}
		item.Quantity = qty
		item.Product = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CartService) Remove(ctx context.Context, user *domain.User, itemID string) error {
	item, err := s.ownedItem(ctx, s.store, user, itemID)
	if err != nil {
		return err
	}
	return s.store.Carts().Delete(ctx, item.ID)
}

func (s *CartService) Clear(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrUnauthenticated
	}
	return s.store.Carts().DeleteByUser(ctx, user.ID)
}

// ownedItem loads a cart line. Lines of other users are reported as missing
// so their ids cannot be guessed.
func (s *CartService) ownedItem(ctx context.Context, st repository.Store, user *domain.User, itemID string) (*domain.CartItem, error) {
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	item, err := st.Carts().FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrCartItemNotFound
	}
	ok, err := s.policy.Can(user, policy.Owned(policy.KindCart, item.UserID), policy.ActionWrite)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrCartItemNotFound
	}
	return item, nil
}
