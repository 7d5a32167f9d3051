package db

import (
	"context"
	"time"

	"gitee.com/czyczk/learnledger/internal/models/common"
	"github.com/patrickmn/go-cache"
)

// CachedMetadataStore 缓存资源记录。资源记录创建后不再修改，因此缓存不会过时。购买记录不缓存，否则鉴权结果可能滞后。
type CachedMetadataStore struct {
	IMetadataStore
	resources *cache.Cache
}

func NewCachedMetadataStore(inner IMetadataStore, expiration time.Duration) *CachedMetadataStore {
	return &CachedMetadataStore{
		IMetadataStore: inner,
		resources:      cache.New(expiration, 2*expiration),
	}
}

func (s *CachedMetadataStore) InsertResource(ctx context.Context, resource *common.Resource) (string, error) {
	id, err := s.IMetadataStore.InsertResource(ctx, resource)
	if err != nil {
		return "", err
	}

	copied := *resource
	s.resources.SetDefault(id, &copied)
	return id, nil
}

func (s *CachedMetadataStore) FindResourceByID(ctx context.Context, id string) (*common.Resource, error) {
	if cached, found := s.resources.Get(id); found {
		copied := *cached.(*common.Resource)
		return &copied, nil
	}

	resource, err := s.IMetadataStore.FindResourceByID(ctx, id)
	if err != nil {
		return nil, err
	}

	copied := *resource
	s.resources.SetDefault(id, &copied)
	return resource, nil
}
