package repository

import "errors"

// 見つからないを各repoで統一
var ErrNotFound = errors.New("not found")
