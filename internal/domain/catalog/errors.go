package catalog

import apperrors "github.com/liuwen/marketplace/pkg/errors"

var (
	ErrVariantNotFound = apperrors.New(apperrors.ErrCodeVariantNotFound, "商品变体不存在")
)
