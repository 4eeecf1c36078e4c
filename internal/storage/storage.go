// Package storage объявляет ошибки слоя хранения, общие для всех реализаций.
package storage

import "errors"

var (
	// ErrNotFound запись отсутствует или принадлежит другому пользователю.
	ErrNotFound = errors.New("not found")
	// ErrUserExists пользователь с таким именем уже зарегистрирован.
	ErrUserExists = errors.New("user already exists")
	// ErrClientNotFound клиент, на которого ссылается долг, не найден у пользователя.
	ErrClientNotFound = errors.New("client not found")
	// ErrClientHasPendingDebts у клиента есть непогашенные долги, удаление запрещено.
	ErrClientHasPendingDebts = errors.New("client has pending debts")
)
