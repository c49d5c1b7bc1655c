package wikipage

var UnquoteName = unquoteName
