package repository

import "errors"

var (
	ErrNotFound             = errors.New("document introuvable")
	ErrDuplicateUsername    = errors.New("nom d'utilisateur déjà pris")
	ErrDuplicateOrderNumber = errors.New("numéro de commande déjà utilisé")
)
