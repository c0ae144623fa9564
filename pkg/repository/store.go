package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"beercomi.dev/BeerComi/pkg/model"
)

var (
	ErrStoreNotFound = errors.New("store not found")
	ErrMenuNotFound  = errors.New("store menu entry not found")
)

func (r *Repository) GetStores(ctx context.Context) ([]*model.Store, error) {
	var stores []*model.Store

	if result := r.DB.WithContext(ctx).Order("name").Find(&stores); result.Error != nil {
		return nil, result.Error
	}

	return stores, nil
}

func (r *Repository) GetStoreByID(ctx context.Context, id uint) (*model.Store, error) {
	var store model.Store

	result := r.DB.WithContext(ctx).First(&store, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}

		return nil, result.Error
	}

	return &store, nil
}

func (r *Repository) AddStore(ctx context.Context, store model.Store) (*model.Store, error) {
	if result := r.DB.WithContext(ctx).Create(&store); result.Error != nil {
		return nil, result.Error
	}

	return &store, nil
}

func (r *Repository) UpdateStore(ctx context.Context, store *model.Store) error {
	result := r.DB.WithContext(ctx).Model(store).
		Updates(map[string]interface{}{
			"name":             store.Name,
			"location":         store.Location,
			"date_of_founding": store.DateOfFounding,
			"owner":            store.Owner,
		})

	return result.Error
}

func (r *Repository) SetStoreVerified(ctx context.Context, storeID uint, verified bool) error {
	result := r.DB.WithContext(ctx).Model(&model.Store{}).Where("id = ?", storeID).
		Update("verified", verified)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrStoreNotFound
	}

	return nil
}

// DeleteStore removes the store and its menu entries together.
func (r *Repository) DeleteStore(ctx context.Context, storeID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if result := tx.Where("store_id = ?", storeID).Delete(&model.StoreMenu{}); result.Error != nil {
			return result.Error
		}

		result := tx.Delete(&model.Store{}, storeID)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return ErrStoreNotFound
		}

		return nil
	})
}

func (r *Repository) GetStoreMenu(ctx context.Context, storeID uint) ([]*model.StoreMenu, error) {
	var menu []*model.StoreMenu

	result := r.DB.WithContext(ctx).
		Preload("Beer").
		Where("store_id = ?", storeID).
		Order("id").
		Find(&menu)
	if result.Error != nil {
		return nil, result.Error
	}

	return menu, nil
}

func (r *Repository) AddStoreMenu(ctx context.Context, entry model.StoreMenu) (*model.StoreMenu, error) {
	if result := r.DB.WithContext(ctx).Create(&entry); result.Error != nil {
		return nil, result.Error
	}

	return &entry, nil
}

func (r *Repository) DeleteStoreMenu(ctx context.Context, menuID uint) error {
	result := r.DB.WithContext(ctx).Delete(&model.StoreMenu{}, menuID)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrMenuNotFound
	}

	return nil
}
