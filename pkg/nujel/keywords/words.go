package keywords

// builtinWords lists the identifiers of the standard Nujel runtime and
// bootstrap library.
const builtinWords = `
quote array/new if cond do - tree/new quasiquote unquote unquote-splicing bool int float
vec string macro memory-info garbage-collect val->index index->val sym->index index->sym
% / * + pow add sub mul div mod add/int sub/int mul/int div/int mod/int pow/int abs sqrt
cbrt floor ceil round sin cos tan atan2 vec/magnitude array/ref array/length
array/length! array/set! array/allocate logand logior logxor lognot ash popcount
int->bytecode-op bytecode-op->int arr->bytecode-arr bytecode-arr->arr bytecode-eval
resolve resolves? closure closure-parent closure-caller closure! current-closure
current-lambda symbol-search symbol-count symbol-table* def set! let* macro* fn* ω*
environment* list apply macro-apply eval* car cdr cons nreverse < <= == != >= > nil?
keyword? read and or while try throw cat trim string/length uppercase lowercase
capitalize string/cut index-of last-index-of char-at from-char-code str->sym sym->str
str/write time time/milliseconds tree/ref tree/list tree/keys tree/values tree/get-list
tree/size tree/has? tree/set! tree/dup tree/key* tree/value* tree/left* tree/right*
symbol->keyword keyword->symbol type-of vec/x vec/y vec/z vec/dot vec/normalize
vec/reflect System/OS System/Architecture lognand bit-set?! zero? not bit-clear?!
array/+= array/++ array/fill! array/append array? array/dup array/reduce array/map
array/filter array/equal? equal? array/push array/swap array/heapify array/make-heap
array/heap-sort array/sort array/cut max min array/2d/allocate array/2d/fill!
array/2d/ref array/2d/set! array/2d/print display newline avl/empty avl/empty?
avl/default-cmp avl/typecheck avl/root avl/key avl/tree avl/height avl/left avl/right
avl/cmp avl/min-node avl/update-left avl/update-right avl/update-key avl/update-root
avl/update-height avl/rotate-right avl/rotate-left avl/balance avl/insert-rebalance
avl/node-insert avl/insert avl/node-get avl/get avl/from-list list/reduce
avl/remove-rebalance avl/node-remove avl/remove avl/equal-node? avl/equal?
avl/reduce-node avl/reduce avl/reduce-node-bin avl/reduce-bin avl/map avl/map-to
avl/to-list sum reduce join for-each count delete filter remove flatten/λ collection?
append flatten ref list/ref tree/filter list/filter tree/reduce length list/length map
list/map sort list/sort/merge member list/member cut list/cut except-last-pair/iter
reverse except-last-pair last-pair make-list range pos? sublist neg? list-head list-tail
getf cadr list/sort/bubble list/merge-sorted-lists list/split-half-rec cddr
list/split-half list/sort list/equal? pair? list/take list/drop tree/zip tree/+= tree/-=
tree/++ tree/-- tree/equal? tree? val->bytecode-op >> sym->bytecode-op int-fit-in-byte?
$nop $ret $push/int/byte $push/int $push/lval $add/int $debug/print-stack $push/symbol
$make-list $eval $apply $< $<= $== $>= $> $apply/dynamic $call $try $throw $jmp $jt $jf
$dup $drop $def $set $get $fn $macro* $closure/push $closure/enter $let $closure/pop
$roots/save $roots/restore $push/nil $swap assemble/build-sym-map assemble/relocate-op
cadddr caddr assemble/emit-relocated-ops assemble/verbose assemble* ansi-blue println
ansi-yellow ansi-green assemble asmrun bytecompile/gen-label/counter
bytecompile/gen-label bytecompile/literal bytecompile/quote bytecompile/do/form
bytecompile* last? bytecompile/do bytecompile/procedure bytecompile/def symbol?
bytecompile/set! bytecompile/if bytecompile/while bytecompile/procedure/arg
bytecompile/procedure/dynamic bytecompile/and/rec bytecompile/and bytecompile/or/rec
bytecompile/or bytecompile/string bytecompile/array bytecompile/tree bytecompile/fn*
bytecompile/macro* bytecompile/ω* bytecompile/let* bytecompile/try bytecompile byterun
-> compile compile/environment compile/verbose compile/do/args compile* compile/do
compile/def compile/set! compile/fn* caddddr compile/macro* compile/ω* compile/try
compile/if compile/let* compile/map compile/while compile/macro eval-in load/forms
compile/forms defmacro string? fn defn ω defobj eval eval-compile display/error
read-eval-compile eval-load read-eval-load typecheck/only when-not disassemble/length
bytecode/nil-catcher error bytecode-op->val bytecode-arr->val bytecode-op->sym
bytecode-arr->sym bytecode-op->offset bytecode-arr->offset disassemble/op
disassemble/array disassemble/bytecode-array disassemble/print string/pad-start
disassemble disassemble/test ansi-red yield-queue yield yield-run timeout event-bind
event-clear event-fire let/arg let/args let if-let when-let comment += cdr! identity
default caar cdar cadar cdddr keyword->string string->keyword if-not when
case/clauses/multiple case/clauses case gensym for for-in thread/-> thread/->> ->>
returnable/λ return returnable numeric? int? float? vec? zero-neg? odd? even? not-zero?
inequal? bool? object? macro? lambda? native? special-form? procedure? bytecode-array?
bytecode-op? in-range? quasiquote-real describe/closure stacktrace time/seconds
time/minutes time/hours profile-form profile hash/adler32 PI π ++ -- +x fib wrap-value
+1 radians display/error/wrap display/error/iter describe/thing describe/string describe
mem ansi-white ansi-pink ansi-reset symbol-table root-closure gensym/counter random/seed
random/seed-initialize! random/rng! random/seed! random tree->json val->json
ansi/disabled ansi-fg-reset ansi-bg-reset ansi-fg ansi-bg ansi-wrap ansi-black
ansi-dark-red ansi-dark-green ansi-brown ansi-dark-blue ansi-purple ansi-teal
ansi-dark-gray ansi-gray ansi-cyan ansi-rainbow split ansi-rainbow-bg reprint-line print
fmt/format-arg/default fmt/find-non-digit-from-right fmt/parse-spec read/single
fmt/debug fmt/number-format int->string/binary int->string/octal int->string/decimal
int->string/hex int->string/HEX fmt/number-format-prefixex fmt/number-format-prefix
fmt/add-padding string/pad-middle string/pad-end fmt/precision string/round fmt/truncate
fmt/output fmt/format-arg fmt/valid-argument? fmt/expr/count fmt/expr
fmt/args/map-fun/count fmt/args/map-fun fmt pfmt efmt pfmtln efmtln errorln
string->byte-array br path/ext?! path/extension path/without-extension
int->string/hex/conversion-arr int->string split/empty split/string read/int read/float
string/length?! contains-any? contains-all? test-context test/reset test-list test-count
test/add* nujel-start success-count error-count print-errors print-passes test/add
display-results test-success test-failure test-bytecode test-default test-forked
eval/forked test-run-real test-run test-run-bytecode test-run-forked input exit popen
file/read file/write file/remove file/temp file/stat directory/read directory/remove
directory/make path/change path/working-directory readline help file/compile file/eval
file/eval/bytecode file/file? file/dir? directory/read-relative directory/read-recursive
repl/executable-name repl/parse-args/bytecode-eval-n repl/parse-args/eval-next
repl/parse-args/run-repl repl/options repl/option-map repl/exception-handler
repl/history repl/prompt repl/wasm repl/readline repl repl/print-help repl/run-forked*
repl/run-forked repl/parse-option repl/parse-options repl/parse-arg repl/parse-args
repl/init/wasm repl/init/bin repl/init environment/variables
`

const indentWords = `def defn let let* lambda define-macro defmacro when unless while for`
