/*
   IGKEYWORDDMbot - Instagram comment keyword auto-DM bot
   Copyright (C) 2025  Unbewohnte (Kasyanov Nikolay Alexeevich)

   This program is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   This program is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package seen

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Set хранит ID комментариев, на которые уже был отправлен ответ.
// capacity <= 0 и retention <= 0 отключают соответствующие ограничения.
type Set struct {
	ids *expirable.LRU[string, time.Time]
}

func New(capacity int, retention time.Duration) *Set {
	if capacity < 0 {
		capacity = 0
	}
	if retention < 0 {
		retention = 0
	}

	return &Set{
		ids: expirable.NewLRU[string, time.Time](capacity, nil, retention),
	}
}

// Contains не продлевает жизнь записи и не меняет порядок вытеснения
func (s *Set) Contains(id string) bool {
	_, ok := s.ids.Peek(id)
	return ok
}

func (s *Set) Add(id string) {
	s.ids.Add(id, time.Now())
}

func (s *Set) Len() int {
	return s.ids.Len()
}
