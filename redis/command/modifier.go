package command

import (
	"fmt"
	"strconv"

	"goredis/redis/protocol"
)

// modifier 修饰符最终展开为若干个字符串参数 首个token标识修饰符种类
type modifier struct {
	args []string
}

func (m modifier) Arguments() []string {
	return m.args
}

func (m modifier) kind() string {
	return m.args[0]
}

// conflict 校验同组互斥的修饰符最多出现一次
// 框架级校验始终开启 半条命令上线会破坏连接的帧同步
func conflict(kinds []string, groups ...[]string) error {
	for _, group := range groups {
		count := 0
		for _, kind := range kinds {
			for _, member := range group {
				if kind == member {
					count++
				}
			}
		}
		if count > 1 {
			return fmt.Errorf("%w: conflicting modifiers %v", protocol.ErrIllegalArgument, group)
		}
	}
	return nil
}

// SetModifier SET命令修饰符
type SetModifier struct{ modifier }

func SetExSeconds(seconds int64) SetModifier {
	return SetModifier{modifier{[]string{"EX", strconv.FormatInt(seconds, 10)}}}
}

func SetPxMillis(millis int64) SetModifier {
	return SetModifier{modifier{[]string{"PX", strconv.FormatInt(millis, 10)}}}
}

func SetIfNotExists() SetModifier {
	return SetModifier{modifier{[]string{"NX"}}}
}

func SetIfExists() SetModifier {
	return SetModifier{modifier{[]string{"XX"}}}
}

func SetKeepTTL() SetModifier {
	return SetModifier{modifier{[]string{"KEEPTTL"}}}
}

func CheckSetModifiers(modifiers []SetModifier) error {
	kinds := make([]string, len(modifiers))
	for i, m := range modifiers {
		kinds[i] = m.kind()
	}
	return conflict(kinds,
		[]string{"EX", "PX", "KEEPTTL"},
		[]string{"NX", "XX"},
	)
}

// ScanModifier SCAN族命令修饰符
type ScanModifier struct{ modifier }

func ScanMatch(pattern string) ScanModifier {
	return ScanModifier{modifier{[]string{"MATCH", pattern}}}
}

func ScanCount(count int64) ScanModifier {
	return ScanModifier{modifier{[]string{"COUNT", strconv.FormatInt(count, 10)}}}
}

func CheckScanModifiers(modifiers []ScanModifier) error {
	kinds := make([]string, len(modifiers))
	for i, m := range modifiers {
		kinds[i] = m.kind()
	}
	return conflict(kinds, []string{"MATCH"}, []string{"COUNT"})
}

// SortModifier SORT命令修饰符 参数顺序与上线顺序一致
type SortModifier struct{ modifier }

func SortBy(pattern string) SortModifier {
	return SortModifier{modifier{[]string{"BY", pattern}}}
}

func SortLimit(offset, count int64) SortModifier {
	return SortModifier{modifier{[]string{"LIMIT", strconv.FormatInt(offset, 10), strconv.FormatInt(count, 10)}}}
}

func SortGet(pattern string) SortModifier {
	return SortModifier{modifier{[]string{"GET", pattern}}}
}

func SortAsc() SortModifier {
	return SortModifier{modifier{[]string{"ASC"}}}
}

func SortDesc() SortModifier {
	return SortModifier{modifier{[]string{"DESC"}}}
}

func SortAlpha() SortModifier {
	return SortModifier{modifier{[]string{"ALPHA"}}}
}

func CheckSortModifiers(modifiers []SortModifier) error {
	kinds := make([]string, len(modifiers))
	for i, m := range modifiers {
		kinds[i] = m.kind()
	}
	// GET可以重复 其余每种至多一个
	return conflict(kinds,
		[]string{"BY"},
		[]string{"LIMIT"},
		[]string{"ASC", "DESC"},
		[]string{"ALPHA"},
	)
}

// ZaddModifier ZADD命令修饰符 INCR形态由ZAddIncr方法单独承载
type ZaddModifier struct{ modifier }

func ZaddIfNotExists() ZaddModifier {
	return ZaddModifier{modifier{[]string{"NX"}}}
}

func ZaddIfExists() ZaddModifier {
	return ZaddModifier{modifier{[]string{"XX"}}}
}

func ZaddChanged() ZaddModifier {
	return ZaddModifier{modifier{[]string{"CH"}}}
}

func CheckZaddModifiers(modifiers []ZaddModifier) error {
	kinds := make([]string, len(modifiers))
	for i, m := range modifiers {
		kinds[i] = m.kind()
	}
	return conflict(kinds, []string{"NX", "XX"}, []string{"CH"})
}

// LposModifier LPOS命令修饰符 COUNT形态由LPosCount方法单独承载
type LposModifier struct{ modifier }

func LposRank(rank int64) LposModifier {
	return LposModifier{modifier{[]string{"RANK", strconv.FormatInt(rank, 10)}}}
}

func CheckLposModifiers(modifiers []LposModifier) error {
	kinds := make([]string, len(modifiers))
	for i, m := range modifiers {
		kinds[i] = m.kind()
	}
	return conflict(kinds, []string{"RANK"})
}

// MigrateModifier MIGRATE命令修饰符
type MigrateModifier struct{ modifier }

func MigrateCopy() MigrateModifier {
	return MigrateModifier{modifier{[]string{"COPY"}}}
}

func MigrateReplace() MigrateModifier {
	return MigrateModifier{modifier{[]string{"REPLACE"}}}
}

func MigrateAuth(password string) MigrateModifier {
	return MigrateModifier{modifier{[]string{"AUTH", password}}}
}

func MigrateAuth2(username, password string) MigrateModifier {
	return MigrateModifier{modifier{[]string{"AUTH2", username, password}}}
}

func MigrateKeys(keys ...string) MigrateModifier {
	return MigrateModifier{modifier{append([]string{"KEYS"}, keys...)}}
}

// CheckMigrateModifiers keyIsEmpty时必须带KEYS 反之不允许
func CheckMigrateModifiers(keyIsEmpty bool, modifiers []MigrateModifier) error {
	kinds := make([]string, len(modifiers))
	hasKeys := false
	for i, m := range modifiers {
		kinds[i] = m.kind()
		if m.kind() == "KEYS" {
			hasKeys = true
		}
	}
	if keyIsEmpty != hasKeys {
		return fmt.Errorf("%w: KEYS modifier is required if and only if the single key is empty", protocol.ErrIllegalArgument)
	}
	return conflict(kinds,
		[]string{"COPY"},
		[]string{"REPLACE"},
		[]string{"AUTH", "AUTH2"},
		[]string{"KEYS"},
	)
}

// RestoreModifier RESTORE命令修饰符
type RestoreModifier struct{ modifier }

func RestoreReplace() RestoreModifier {
	return RestoreModifier{modifier{[]string{"REPLACE"}}}
}

func RestoreAbsTTL() RestoreModifier {
	return RestoreModifier{modifier{[]string{"ABSTTL"}}}
}

func RestoreIdleTime(seconds int64) RestoreModifier {
	return RestoreModifier{modifier{[]string{"IDLETIME", strconv.FormatInt(seconds, 10)}}}
}

func RestoreFreq(frequency int64) RestoreModifier {
	return RestoreModifier{modifier{[]string{"FREQ", strconv.FormatInt(frequency, 10)}}}
}

func CheckRestoreModifiers(modifiers []RestoreModifier) error {
	kinds := make([]string, len(modifiers))
	for i, m := range modifiers {
		kinds[i] = m.kind()
	}
	return conflict(kinds,
		[]string{"REPLACE"},
		[]string{"ABSTTL"},
		[]string{"IDLETIME", "FREQ"},
	)
}

// GeoradiusModifier GEORADIUS命令修饰符
type GeoradiusModifier struct{ modifier }

func GeoWithCoord() GeoradiusModifier {
	return GeoradiusModifier{modifier{[]string{"WITHCOORD"}}}
}

func GeoWithDist() GeoradiusModifier {
	return GeoradiusModifier{modifier{[]string{"WITHDIST"}}}
}

func GeoWithHash() GeoradiusModifier {
	return GeoradiusModifier{modifier{[]string{"WITHHASH"}}}
}

func GeoCount(count int64) GeoradiusModifier {
	return GeoradiusModifier{modifier{[]string{"COUNT", strconv.FormatInt(count, 10)}}}
}

func GeoAsc() GeoradiusModifier {
	return GeoradiusModifier{modifier{[]string{"ASC"}}}
}

func GeoDesc() GeoradiusModifier {
	return GeoradiusModifier{modifier{[]string{"DESC"}}}
}

func GeoStore(destination string) GeoradiusModifier {
	return GeoradiusModifier{modifier{[]string{"STORE", destination}}}
}

func GeoStoreDist(destination string) GeoradiusModifier {
	return GeoradiusModifier{modifier{[]string{"STOREDIST", destination}}}
}

// CheckGeoradiusModifiers readOnly形态不允许STORE/STOREDIST WITH族仅读形态可用
func CheckGeoradiusModifiers(readOnly bool, modifiers []GeoradiusModifier) error {
	kinds := make([]string, len(modifiers))
	for i, m := range modifiers {
		kinds[i] = m.kind()
		switch m.kind() {
		case "STORE", "STOREDIST":
			if readOnly {
				return fmt.Errorf("%w: STORE modifiers are not allowed for a read-only GEORADIUS", protocol.ErrIllegalArgument)
			}
		case "WITHCOORD", "WITHDIST", "WITHHASH":
			if !readOnly {
				return fmt.Errorf("%w: WITH modifiers are only allowed for a read-only GEORADIUS", protocol.ErrIllegalArgument)
			}
		}
	}
	return conflict(kinds,
		[]string{"WITHCOORD"},
		[]string{"WITHDIST"},
		[]string{"WITHHASH"},
		[]string{"COUNT"},
		[]string{"ASC", "DESC"},
		[]string{"STORE"},
		[]string{"STOREDIST"},
	)
}

// BitOperator BITOP的位运算符
type BitOperator string

const (
	BitAnd BitOperator = "AND"
	BitOr  BitOperator = "OR"
	BitXor BitOperator = "XOR"
	BitNot BitOperator = "NOT"
)
