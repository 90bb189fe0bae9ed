package sink

import "errors"

// ErrWrongExpectedVersion возвращается, когда версия потока не совпала с ожидаемой
var ErrWrongExpectedVersion = errors.New("wrong expected version")
