// Package policy отвечает на вопрос "может ли actor выполнить action над
// объектом владельца ownerID". Чистые функции, без состояния и запросов в БД.
package policy

import (
	"github.com/s/writersDesk/internal/models"
)

type Kind string

const (
	KindModule  Kind = "module"
	KindArticle Kind = "article"
	KindRule    Kind = "rule"
)

type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

type check func(actor models.User, ownerID uint) bool

func anyone(models.User, uint) bool { return true }

func ownerOnly(actor models.User, ownerID uint) bool {
	return actor.ID != 0 && actor.ID == ownerID
}

func leadOnly(actor models.User, _ uint) bool {
	return actor.RoleID == models.RoleLead
}

// Таблица (вид ресурса, действие) -> проверка. Админ проходит всё без таблицы.
var table = map[Kind]map[Action]check{
	KindModule: {
		ActionView:   anyone,
		ActionCreate: leadOnly,
		ActionEdit:   ownerOnly,
		ActionDelete: ownerOnly,
	},
	KindArticle: {
		ActionView:   anyone,
		ActionCreate: anyone,
		ActionEdit:   ownerOnly,
		ActionDelete: ownerOnly,
	},
	KindRule: {
		ActionView:   anyone,
		ActionCreate: leadOnly,
		ActionEdit:   ownerOnly,
		ActionDelete: ownerOnly,
	},
}

func Allowed(actor models.User, kind Kind, action Action, ownerID uint) bool {
	if actor.RoleID == models.RoleAdmin {
		return true
	}

	actions, ok := table[kind]
	if !ok {
		return false
	}
	rule, ok := actions[action]
	if !ok {
		return false
	}
	return rule(actor, ownerID)
}

// Обертки для читаемости в хендлерах

func CanEditModule(actor models.User, m models.Module) bool {
	return Allowed(actor, KindModule, ActionEdit, m.LeadWriterID)
}

func CanDeleteModule(actor models.User, m models.Module) bool {
	return Allowed(actor, KindModule, ActionDelete, m.LeadWriterID)
}

func CanEditArticle(actor models.User, a models.Article) bool {
	return Allowed(actor, KindArticle, ActionEdit, a.WriterID)
}

func CanDeleteArticle(actor models.User, a models.Article) bool {
	return Allowed(actor, KindArticle, ActionDelete, a.WriterID)
}

func CanEditRule(actor models.User, r models.WritingRule) bool {
	return Allowed(actor, KindRule, ActionEdit, r.LeadWriterID)
}
