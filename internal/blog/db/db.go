// Package blogdb はpostsテーブルへのデータアクセス層を提供する。
//
// トランザクションや結合は使わない。単一行の取得、全件取得、
// 単一行の挿入の3操作のみを公開する。
package blogdb

import "database/sql"

// Queries はpostsテーブルに対するクエリ実行オブジェクト。
type Queries struct {
	db *sql.DB
}

// New は新しいクエリ実行オブジェクトを生成する。
func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}
