package client

import (
	"fmt"

	"goredis/interface/redis"
	"goredis/lib/sync/promise"
	"goredis/redis/command"
	"goredis/redis/protocol"
)

// geo命令

// GeoAdd 写入member的经纬度 返回新增的数量
func (c *Connection) GeoAdd(key string, entries map[string]Coordinate) *promise.Promise[int64] {
	if len(entries) == 0 {
		return promise.Failed[int64](fmt.Errorf("%w: no entry to add", protocol.ErrIllegalArgument))
	}
	args := make([][]byte, 0, len(entries)*3+1)
	args = append(args, c.bs(key))
	for member, coord := range entries {
		args = append(args, c.bs(f64(coord.Longitude)), c.bs(f64(coord.Latitude)), c.bs(member))
	}
	return sendCmd(c, command.New(command.GeoAdd, args...), parseInteger)
}

// GeoDist 两个member之间的距离 任一member不存在时nil
func (c *Connection) GeoDist(key, member1, member2 string, unit DistanceUnit) *promise.Promise[*float64] {
	return sendCmd(c, command.New(command.GeoDist, c.bs(key), c.bs(member1), c.bs(member2), c.bs(string(unit))), c.parseNullableDouble)
}

// GeoHash member的geohash字符串 不存在的member对应nil元素
func (c *Connection) GeoHash(key, member string, otherMembers ...string) *promise.Promise[[]*string] {
	args := c.appendStrings(c.args(key, member), otherMembers)
	return sendCmd(c, command.New(command.GeoHash, args...), c.parseNullableStrings)
}

// GeoPos member的经纬度 不存在的member对应nil元素
func (c *Connection) GeoPos(key, member string, otherMembers ...string) *promise.Promise[[]*Coordinate] {
	args := c.appendStrings(c.args(key, member), otherMembers)
	return sendCmd(c, command.New(command.GeoPos, args...), c.parseCoordinates)
}

// GeoRadius STORE形态 按坐标检索并写入目标key 返回结果数量
func (c *Connection) GeoRadius(key string, coordinate Coordinate, radius float64, unit DistanceUnit, modifiers ...command.GeoradiusModifier) *promise.Promise[int64] {
	if err := command.CheckGeoradiusModifiers(false, modifiers); err != nil {
		return promise.Failed[int64](err)
	}
	args := c.geoRadiusArgs(command.GeoRadius, key, &coordinate, "", radius, unit, modifiers)
	return sendCmd(c, command.New(command.GeoRadius, args...), parseInteger)
}

// GeoRadiusReadOnly 只读形态 WITH族修饰符决定结果字段
func (c *Connection) GeoRadiusReadOnly(key string, coordinate Coordinate, radius float64, unit DistanceUnit, modifiers ...command.GeoradiusModifier) *promise.Promise[[]*GeoradiusResult] {
	if err := command.CheckGeoradiusModifiers(true, modifiers); err != nil {
		return promise.Failed[[]*GeoradiusResult](err)
	}
	args := c.geoRadiusArgs(command.GeoRadius, key, &coordinate, "", radius, unit, modifiers)
	withCoord, withDist, withHash := geoWithFlags(modifiers)
	return sendCmd(c, command.New(command.GeoRadius, args...), func(reply redis.Reply) ([]*GeoradiusResult, error) {
		return c.parseGeoradiusResults(reply, withCoord, withDist, withHash)
	})
}

// GeoRadiusByMember STORE形态 圆心取member的位置
func (c *Connection) GeoRadiusByMember(key, member string, radius float64, unit DistanceUnit, modifiers ...command.GeoradiusModifier) *promise.Promise[int64] {
	if err := command.CheckGeoradiusModifiers(false, modifiers); err != nil {
		return promise.Failed[int64](err)
	}
	args := c.geoRadiusArgs(command.GeoRadiusByMember, key, nil, member, radius, unit, modifiers)
	return sendCmd(c, command.New(command.GeoRadiusByMember, args...), parseInteger)
}

// GeoRadiusByMemberReadOnly 只读形态
func (c *Connection) GeoRadiusByMemberReadOnly(key, member string, radius float64, unit DistanceUnit, modifiers ...command.GeoradiusModifier) *promise.Promise[[]*GeoradiusResult] {
	if err := command.CheckGeoradiusModifiers(true, modifiers); err != nil {
		return promise.Failed[[]*GeoradiusResult](err)
	}
	args := c.geoRadiusArgs(command.GeoRadiusByMember, key, nil, member, radius, unit, modifiers)
	withCoord, withDist, withHash := geoWithFlags(modifiers)
	return sendCmd(c, command.New(command.GeoRadiusByMember, args...), func(reply redis.Reply) ([]*GeoradiusResult, error) {
		return c.parseGeoradiusResults(reply, withCoord, withDist, withHash)
	})
}

// geoRadiusArgs 圆心是坐标或member二选一
func (c *Connection) geoRadiusArgs(cmd command.Command, key string, coordinate *Coordinate, member string, radius float64, unit DistanceUnit, modifiers []command.GeoradiusModifier) [][]byte {
	args := [][]byte{c.bs(key)}
	if coordinate != nil {
		args = append(args, c.bs(f64(coordinate.Longitude)), c.bs(f64(coordinate.Latitude)))
	} else {
		args = append(args, c.bs(member))
	}
	args = append(args, c.bs(f64(radius)), c.bs(string(unit)))
	for _, m := range modifiers {
		args = c.appendStrings(args, m.Arguments())
	}
	return args
}

func geoWithFlags(modifiers []command.GeoradiusModifier) (withCoord, withDist, withHash bool) {
	for _, m := range modifiers {
		switch m.Arguments()[0] {
		case "WITHCOORD":
			withCoord = true
		case "WITHDIST":
			withDist = true
		case "WITHHASH":
			withHash = true
		}
	}
	return withCoord, withDist, withHash
}
