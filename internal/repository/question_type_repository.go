package repository

import (
	"college_edu_backend/internal/model"
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const typeCacheKey = "question_types:by_code"

type QuestionTypeRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewQuestionTypeRepository(db *gorm.DB, rdb *redis.Client) *QuestionTypeRepository {
	return &QuestionTypeRepository{DB: db, Redis: rdb}
}

func (r *QuestionTypeRepository) ListAll() ([]model.QuestionType, error) {
	var ts []model.QuestionType
	err := r.DB.Order("id asc").Find(&ts).Error
	return ts, err
}

// ResolveTypes 按编码批量解析题型主键，一次导入调用一次。
// 编码到主键的映射在 Redis 缓存 10 分钟，字典表几乎不变。
func (r *QuestionTypeRepository) ResolveTypes(ctx context.Context, codes []string) (map[string]uint, error) {
	if cached := r.fromCache(ctx); cached != nil {
		return pick(cached, codes), nil
	}

	var ts []model.QuestionType
	if err := r.DB.WithContext(ctx).Find(&ts).Error; err != nil {
		return nil, err
	}

	all := make(map[string]uint, len(ts))
	for _, t := range ts {
		all[t.Code] = t.ID
	}
	r.toCache(ctx, all)
	return pick(all, codes), nil
}

func pick(all map[string]uint, codes []string) map[string]uint {
	out := make(map[string]uint, len(codes))
	for _, c := range codes {
		if id, ok := all[c]; ok {
			out[c] = id
		}
	}
	return out
}

func (r *QuestionTypeRepository) fromCache(ctx context.Context) map[string]uint {
	if r.Redis == nil {
		return nil
	}
	data, err := r.Redis.Get(ctx, typeCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var m map[string]uint
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	return m
}

func (r *QuestionTypeRepository) toCache(ctx context.Context, m map[string]uint) {
	if r.Redis == nil {
		return
	}
	data, err := json.Marshal(m)
	if err != nil {
		return
	}
	r.Redis.Set(ctx, typeCacheKey, data, 10*time.Minute)
}
