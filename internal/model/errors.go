package model

import (
	"errors"
	"fmt"
)

// ErrEmptyDataset этап получил ноль пригодных строк
var ErrEmptyDataset = errors.New("набор данных пуст")

// ErrNoSheets в книге нет ни одного листа
var ErrNoSheets = errors.New("в книге нет листов")

// MissingSheetError ни один лист не подошел под требуемую роль
type MissingSheetError struct {
	Role Role
}

func (e *MissingSheetError) Error() string {
	return fmt.Sprintf("не найден лист с ролью %q", string(e.Role))
}

// MissingColumnError в источнике нет обязательной канонической колонки
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("не найдена обязательная колонка %q", e.Column)
}

// IsMissingSheet проверка на MissingSheetError
func IsMissingSheet(err error) bool {
	var target *MissingSheetError
	return errors.As(err, &target)
}

// IsMissingColumn проверка на MissingColumnError
func IsMissingColumn(err error) bool {
	var target *MissingColumnError
	return errors.As(err, &target)
}
